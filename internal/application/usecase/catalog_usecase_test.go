package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/application/usecase"
	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
	"github.com/indrhi/suministros-api/internal/infrastructure/memory"
)

type mapCache struct {
	list          []*entity.Article
	version       int64
	hits          int
	invalidations int
}

func (c *mapCache) Articles(context.Context) ([]*entity.Article, bool) {
	if c.list == nil {
		return nil, false
	}
	c.hits++
	return c.list, true
}
func (c *mapCache) Version(context.Context) (int64, bool) { return c.version, true }
func (c *mapCache) StoreArticles(_ context.Context, v int64, l []*entity.Article) {
	if v == c.version {
		c.list = l
	}
}
func (c *mapCache) Invalidate(context.Context) {
	c.list = nil
	c.version++
	c.invalidations++
}

// racingRepo invalida la caché mientras se lee el listado, como una entrada que confirma en paralelo.
type racingRepo struct {
	repository.ArticleRepository
	onList func()
}

func (r racingRepo) List(ctx context.Context) ([]*entity.Article, error) {
	list, err := r.ArticleRepository.List(ctx)
	if r.onList != nil {
		r.onList()
	}
	return list, err
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func newArticle(code string, onHand, min int) dto.CreateArticleRequest {
	return dto.CreateArticleRequest{
		Code: code, Description: "Artículo " + code, OnHand: onHand, MinQuantity: min,
		Unit: entity.UnitUnidad, UnitPrice: decimal.RequireFromString("12.50"),
	}
}

func TestArticle_CrearYCodigoUnico(t *testing.T) {
	uc := usecase.NewArticleUseCase(memory.NewStore().Articles(), nil)
	ctx := context.Background()

	out, err := uc.Create(ctx, newArticle("ART-001", 4, 5))
	require.NoError(t, err)
	assert.True(t, out.LowStock)
	assert.True(t, decimal.RequireFromString("50").Equal(out.TotalValue))

	_, err = uc.Create(ctx, newArticle("ART-001", 1, 1))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, newArticle("art-001", 1, 1))
	assert.NoError(t, err, "el código distingue mayúsculas")

	require.NoError(t, uc.Delete(ctx, out.ID))
	_, err = uc.Create(ctx, newArticle("ART-001", 1, 1))
	assert.NoError(t, err, "un código dado de baja se puede reutilizar")
}

func TestArticle_Validaciones(t *testing.T) {
	uc := usecase.NewArticleUseCase(memory.NewStore().Articles(), nil)
	ctx := context.Background()

	bad := newArticle("ART-9", 1, 1)
	bad.Unit = "BARRIL"
	_, err := uc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = newArticle("ART-9", -1, 1)
	_, err = uc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = newArticle("ART-9", 1, 1)
	bad.UnitPrice = decimal.NewFromInt(-1)
	_, err = uc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, "no-existe", dto.UpdateArticleRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArticle_UpdateNoTocaExistencia(t *testing.T) {
	uc := usecase.NewArticleUseCase(memory.NewStore().Articles(), nil)
	ctx := context.Background()
	a, err := uc.Create(ctx, newArticle("ART-001", 20, 5))
	require.NoError(t, err)
	b, err := uc.Create(ctx, newArticle("ART-002", 1, 5))
	require.NoError(t, err)

	out, err := uc.Update(ctx, a.ID, dto.UpdateArticleRequest{Description: strPtr("Papel bond 8½x11"), MinQuantity: intPtr(30)})
	require.NoError(t, err)
	assert.Equal(t, 20, out.OnHand)
	assert.Equal(t, "Papel bond 8½x11", out.Description)
	assert.True(t, out.LowStock)

	_, err = uc.Update(ctx, a.ID, dto.UpdateArticleRequest{Code: strPtr(b.Code)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	low, err := uc.LowStock(ctx)
	require.NoError(t, err)
	assert.Len(t, low, 2)
}

func TestArticle_ListUsaCacheEInvalida(t *testing.T) {
	cache := &mapCache{}
	uc := usecase.NewArticleUseCase(memory.NewStore().Articles(), cache)
	ctx := context.Background()
	_, err := uc.Create(ctx, newArticle("ART-002", 1, 0))
	require.NoError(t, err)
	_, err = uc.Create(ctx, newArticle("ART-001", 1, 0))
	require.NoError(t, err)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ART-001", list[0].Code)
	assert.Zero(t, cache.hits)

	_, err = uc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	require.NoError(t, uc.Delete(ctx, list[0].ID))
	list, err = uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1, "la baja invalida la caché")
	assert.Equal(t, 3, cache.invalidations)
}

func TestArticle_ListNoGuardaListadoViejo(t *testing.T) {
	cache := &mapCache{}
	store := memory.NewStore()
	ctx := context.Background()
	repo := racingRepo{ArticleRepository: store.Articles()}
	uc := usecase.NewArticleUseCase(repo, cache)
	_, err := uc.Create(ctx, newArticle("ART-001", 1, 0))
	require.NoError(t, err)

	repo.onList = func() { cache.Invalidate(ctx) }
	uc = usecase.NewArticleUseCase(repo, cache)
	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Nil(t, cache.list, "la invalidación durante la lectura descarta el listado")

	repo.onList = nil
	uc = usecase.NewArticleUseCase(repo, cache)
	_, err = uc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cache.list, "sin invalidaciones concurrentes se guarda")
}

func TestDepartment_CodigoSinDistinguirMayusculas(t *testing.T) {
	uc := usecase.NewDepartmentUseCase(memory.NewStore().Departments())
	ctx := context.Background()

	d, err := uc.Create(ctx, dto.CreateDepartmentRequest{Code: "Gestión", Name: "Gestión Humana"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateDepartmentRequest{Code: "GESTIÓN", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateDepartmentRequest{Code: " ", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.Update(ctx, d.ID, dto.UpdateDepartmentRequest{Name: strPtr("Recursos Humanos")})
	require.NoError(t, err)
	assert.Equal(t, "Recursos Humanos", out.Name)
	assert.Equal(t, "Gestión", out.Code)

	require.NoError(t, uc.Delete(ctx, d.ID))
	_, err = uc.GetByID(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUser_CrearYReglasDeRol(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Departments().Create(ctx, &entity.Department{ID: "d-ti", Code: "TI", Name: "Tecnología", Active: true}))
	uc := usecase.NewUserUseCase(store.Users(), store.Departments())

	u, err := uc.Create(ctx, dto.CreateUserRequest{Name: "Ana Pérez", Email: " Ana@INDRHI.gob.do ", Password: "secreta123", Role: entity.RoleDepartment, DepartmentID: "d-ti"})
	require.NoError(t, err)
	assert.Equal(t, "ana@indrhi.gob.do", u.Email)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Name: "Otra", Email: "ANA@indrhi.gob.do", Password: "secreta123", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Name: "X", Email: "x@indrhi.gob.do", Password: "secreta123", Role: entity.RoleDepartment})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "Department requiere departamento")

	_, err = uc.Create(ctx, dto.CreateUserRequest{Name: "X", Email: "x@indrhi.gob.do", Password: "secreta123", Role: entity.RoleDepartment, DepartmentID: "d-x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Name: "X", Email: "x@indrhi.gob.do", Password: "corta", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Name: "X", Email: "x@indrhi.gob.do", Password: "secreta123", Role: "Root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUser_UpdatePasswordYBaja(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	uc := usecase.NewUserUseCase(store.Users(), store.Departments())
	u, err := uc.Create(ctx, dto.CreateUserRequest{Name: "Mike Johnson", Email: "mike@indrhi.gob.do", Password: "secreta123", Role: entity.RoleSupply})
	require.NoError(t, err)

	out, err := uc.Update(ctx, u.ID, dto.UpdateUserRequest{Role: strPtr(entity.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Role)

	assert.ErrorIs(t, uc.ChangePassword(ctx, u.ID, "123"), domain.ErrInvalidInput)
	require.NoError(t, uc.ChangePassword(ctx, u.ID, "nueva-clave-1"))
	stored, err := store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "nueva-clave-1", stored.PasswordHash)

	self := entity.Session{UserID: u.ID, Role: entity.RoleSuperAdmin}
	assert.ErrorIs(t, uc.Delete(ctx, self, u.ID), domain.ErrConflict)

	root := entity.Session{UserID: "u-root", Role: entity.RoleSuperAdmin}
	require.NoError(t, uc.Delete(ctx, root, u.ID))
	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, uc.Delete(ctx, root, u.ID), domain.ErrNotFound)
}
