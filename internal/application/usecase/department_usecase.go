package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

// DepartmentUseCase CRUD del directorio de departamentos.
type DepartmentUseCase struct {
	repo repository.DepartmentRepository
}

// NewDepartmentUseCase construye el caso de uso.
func NewDepartmentUseCase(repo repository.DepartmentRepository) *DepartmentUseCase {
	return &DepartmentUseCase{repo: repo}
}

var errDuplicateDepartment = fmt.Errorf("%w: ya existe un departamento con ese código", domain.ErrDuplicate)

// Create crea un departamento. El código se compara sin distinguir mayúsculas antes de escribir.
func (uc *DepartmentUseCase) Create(ctx context.Context, in dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.Invalid("codigo", "código y nombre son requeridos")
	}
	taken, err := uc.codeTaken(ctx, code, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errDuplicateDepartment
	}
	now := time.Now()
	dept := &entity.Department{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, dept); err != nil {
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// GetByID obtiene un departamento activo.
func (uc *DepartmentUseCase) GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error) {
	dept, err := uc.active(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// Update aplica los campos presentes.
func (uc *DepartmentUseCase) Update(ctx context.Context, id string, in dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	dept, err := uc.active(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, domain.Invalid("codigo", "no puede estar vacío")
		}
		taken, err := uc.codeTaken(ctx, code, dept.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errDuplicateDepartment
		}
		dept.Code = code
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("nombre", "no puede estar vacío")
		}
		dept.Name = name
	}
	dept.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, dept); err != nil {
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// Delete baja lógica.
func (uc *DepartmentUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.active(ctx, id); err != nil {
		return err
	}
	return uc.repo.SoftDelete(ctx, id)
}

// List departamentos activos.
func (uc *DepartmentUseCase) List(ctx context.Context) ([]dto.DepartmentResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepartmentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *toDepartmentResponse(d))
	}
	return out, nil
}

// codeTaken compara con case folding Unicode ("Compras" == "COMPRAS", "Gestión" == "GESTIÓN").
func (uc *DepartmentUseCase) codeTaken(ctx context.Context, code, exceptID string) (bool, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return false, err
	}
	fold := cases.Fold()
	want := fold.String(code)
	for _, d := range list {
		if d.ID != exceptID && fold.String(d.Code) == want {
			return true, nil
		}
	}
	return false, nil
}

func (uc *DepartmentUseCase) active(ctx context.Context, id string) (*entity.Department, error) {
	dept, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dept == nil || !dept.Active {
		return nil, fmt.Errorf("%w: departamento %s", domain.ErrNotFound, id)
	}
	return dept, nil
}

func toDepartmentResponse(d *entity.Department) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{
		ID:        d.ID,
		Code:      d.Code,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
