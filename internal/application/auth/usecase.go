package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/application/usecase"
	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
	"github.com/indrhi/suministros-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login con bcrypt y emisión de JWT.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica email/password y devuelve token + usuario.
// Usuario inexistente, inactivo o contraseña errónea responden igual: ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Subject{
		UserID:       user.ID,
		Name:         user.Name,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *usecase.ToUserResponse(user),
	}, nil
}

// SessionFromClaims arma la sesión explícita a partir de un token ya validado.
func SessionFromClaims(c *jwt.Claims) entity.Session {
	return entity.Session{
		UserID:       c.UserID,
		Name:         c.Name,
		Role:         c.Role,
		DepartmentID: c.DepartmentID,
	}
}
