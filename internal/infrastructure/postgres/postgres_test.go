package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

var articleCols = []string{"id", "codigo", "descripcion", "existencia", "cantidad_minima", "unidad", "valor", "activo", "created_at", "updated_at"}

// ─── Artículos ──────────────────────────────────────────────────────────────

func TestArticleRepo_GetByID_NoExiste(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM articulos WHERE id = $1")).
		WithArgs("a1").
		WillReturnRows(pgxmock.NewRows(articleCols))

	a, err := NewArticleRepository(mock).GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Nil(t, a, "sin fila se devuelve (nil, nil)")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepo_ListLowStock(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("existencia <= cantidad_minima")).
		WillReturnRows(pgxmock.NewRows(articleCols).
			AddRow("a1", "ART-001", "Resma papel", 3, 5, "RESMA", decimal.NewFromInt(250), true, now, now))

	list, err := NewArticleRepository(mock).ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ART-001", list[0].Code)
	assert.True(t, list[0].IsLowStock())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepo_SetStock_CheckViolation(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE articulos SET existencia")).
		WithArgs("a1", 0).
		WillReturnError(&pgconn.PgError{Code: "23514"})

	err := NewArticleRepository(mock).SetStock(context.Background(), "a1", 0)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	err = NewArticleRepository(mock).SetStock(context.Background(), "a1", -2)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "negativo no llega a la DB")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepo_Create_Duplicado(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO articulos")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := NewArticleRepository(mock).Create(context.Background(), &entity.Article{
		ID: "a2", Code: "ART-001", Description: "Resma papel", Unit: "RESMA", Active: true,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRequestRepo_GetByID_IDNoUUID(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.id = $1")).
		WithArgs("123").
		WillReturnError(&pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "123"`})

	req, err := NewRequestRepository(mock).GetByID(context.Background(), "123")
	require.NoError(t, err)
	assert.Nil(t, req, "un id que no es UUID se trata como inexistente")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepo_SoftDelete_IDNoUUID(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE articulos SET activo = FALSE")).
		WithArgs("ART-001").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	err := NewArticleRepository(mock).SoftDelete(context.Background(), "ART-001")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHasCode_SoloPgError(t *testing.T) {
	plain := errors.New("fallo al leer 7f23505a-0000-4000-8000-000000023514")
	assert.False(t, isUniqueViolation(plain), "el texto del error no decide el código")
	assert.False(t, isCheckViolation(plain))
	assert.False(t, isUniqueViolation(nil))

	wrapped := wrapErr("insert articulo", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(wrapped))
	assert.NotErrorIs(t, wrapped, domain.ErrInvalidInput)
}

// ─── Solicitudes y entradas ─────────────────────────────────────────────────

func TestRequestRepo_NextNumber(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("nextval('numero_solicitud_seq')")).
		WillReturnRows(pgxmock.NewRows([]string{"nextval"}).AddRow(int64(42)))

	n, err := NewRequestRepository(mock).NextNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestRequestRepo_SoftDelete_NoExiste(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE solicitudes SET activo = FALSE")).
		WithArgs("r1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewRequestRepository(mock).SoftDelete(context.Background(), "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntryRepo_NextSequence_Upsert(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (anio) DO UPDATE")).
		WithArgs(2025).
		WillReturnRows(pgxmock.NewRows([]string{"ultimo"}).AddRow(7))

	n, err := NewEntryRepository(mock).NextSequence(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestEntryRepo_ListOrderNumbers_PrefijoDelAnio(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("starts_with(numero_orden, $1)")).
		WithArgs("INDRHI-DAF-CD-2025-").
		WillReturnRows(pgxmock.NewRows([]string{"numero_orden"}).AddRow("INDRHI-DAF-CD-2025-0001"))

	got, err := NewEntryRepository(mock).ListOrderNumbers(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, []string{"INDRHI-DAF-CD-2025-0001"}, got)
}

// ─── Transacciones y migraciones ────────────────────────────────────────────

func TestTxRunner_CommitYRollback(t *testing.T) {
	mock := newMock(t)
	runner := NewTxRunner(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("nextval")).WillReturnRows(pgxmock.NewRows([]string{"nextval"}).AddRow(int64(1)))
	mock.ExpectCommit()
	err := runner.Run(context.Background(), func(requests repository.RequestRepository, _ repository.ArticleRepository) error {
		_, err := requests.NextNumber(context.Background())
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()
	err = runner.RunIntake(context.Background(), func(repository.EntryRepository, repository.ArticleRepository) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_AplicaPendientes(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM schema_migrations WHERE version = $1")).
		WithArgs("001_init").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS departamentos")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).
		WithArgs("001_init").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	applied, err := Migrate(context.Background(), mock)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init"}, applied)
}

func TestMigrate_YaAplicada(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM schema_migrations WHERE version = $1")).
		WithArgs("001_init").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	applied, err := Migrate(context.Background(), mock)
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}
