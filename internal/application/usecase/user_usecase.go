package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

const minPasswordLen = 8

// UserUseCase administración de usuarios. Las contraseñas se guardan solo como hash bcrypt.
type UserUseCase struct {
	repo        repository.UserRepository
	departments repository.DepartmentRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository, departments repository.DepartmentRepository) *UserUseCase {
	return &UserUseCase{repo: repo, departments: departments}
}

// Create crea un usuario activo. Email único, sin distinguir mayúsculas.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" {
		return nil, domain.Invalid("email", "nombre y email son requeridos")
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.Invalid("password", fmt.Sprintf("mínimo %d caracteres", minPasswordLen))
	}
	if err := uc.checkRole(ctx, in.Role, in.DepartmentID); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		DepartmentID: in.DepartmentID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Update aplica los campos presentes.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.active(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("nombre", "no puede estar vacío")
		}
		user.Name = name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != user.Email {
			existing, err := uc.repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != user.ID {
				return nil, domain.ErrEmailAlreadyExists
			}
			user.Email = email
		}
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.DepartmentID != nil {
		user.DepartmentID = *in.DepartmentID
	}
	if err := uc.checkRole(ctx, user.Role, user.DepartmentID); err != nil {
		return nil, err
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ChangePassword reemplaza el hash de la contraseña.
func (uc *UserUseCase) ChangePassword(ctx context.Context, id, password string) error {
	if len(password) < minPasswordLen {
		return domain.Invalid("password", fmt.Sprintf("mínimo %d caracteres", minPasswordLen))
	}
	user, err := uc.active(ctx, id)
	if err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, user)
}

// Delete baja lógica. Un usuario no puede darse de baja a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, s entity.Session, id string) error {
	if s.UserID == id {
		return fmt.Errorf("%w: no puede eliminar su propio usuario", domain.ErrConflict)
	}
	if _, err := uc.active(ctx, id); err != nil {
		return err
	}
	return uc.repo.SoftDelete(ctx, id)
}

// List usuarios activos.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

func (uc *UserUseCase) checkRole(ctx context.Context, role, departmentID string) error {
	if !entity.IsValidRole(role) {
		return domain.Invalid("rol", fmt.Sprintf("rol desconocido %q", role))
	}
	if role != entity.RoleDepartment && departmentID == "" {
		return nil
	}
	if departmentID == "" {
		return domain.Invalid("departamento_id", "requerido para el rol Department")
	}
	dept, err := uc.departments.GetByID(ctx, departmentID)
	if err != nil {
		return err
	}
	if dept == nil || !dept.Active {
		return fmt.Errorf("%w: departamento %s", domain.ErrNotFound, departmentID)
	}
	return nil
}

func (uc *UserUseCase) active(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// HashPassword hash bcrypt con el costo por defecto.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ToUserResponse salida sin el hash.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
