package bootstrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/bootstrap"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/pkg/config"
	"github.com/indrhi/suministros-api/pkg/logger"
)

func TestOpenStorage_MemoriaConServicios(t *testing.T) {
	cfg := &config.Config{
		App: config.AppConfig{StorageDriver: "memory"},
		JWT: config.JWTConfig{Secret: "s", Expiration: 5, Issuer: "test"},
	}
	ctx := context.Background()
	st, err := bootstrap.OpenStorage(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer st.Close()
	assert.Equal(t, "memory", st.Driver)
	require.NoError(t, st.Ping(ctx))

	applied, err := st.Migrate(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	svc := bootstrap.NewServices(cfg, st, nil, logger.Nop())
	_, err = svc.Users.Create(ctx, dto.CreateUserRequest{Name: "John Smith", Email: "root@indrhi.gob.do", Password: "cambiar123", Role: entity.RoleSuperAdmin})
	require.NoError(t, err)
	out, err := svc.Auth.Login(ctx, dto.LoginRequest{Email: "root@indrhi.gob.do", Password: "cambiar123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
}

func TestOpenStorage_DriverDesconocido(t *testing.T) {
	_, err := bootstrap.OpenStorage(context.Background(), &config.Config{App: config.AppConfig{StorageDriver: "sqlite"}}, logger.Nop())
	assert.Error(t, err)
}
