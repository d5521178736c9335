package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

func seedArticle(t *testing.T, s *Store, id, code string, onHand int) {
	t.Helper()
	require.NoError(t, s.Articles().Create(context.Background(), &entity.Article{
		ID: id, Code: code, Description: "Artículo " + code, OnHand: onHand,
		MinQuantity: 5, Unit: entity.UnitUnidad, UnitPrice: decimal.NewFromInt(10), Active: true,
	}))
}

func TestRun_ErrorDescartaEscrituras(t *testing.T) {
	s := NewStore()
	seedArticle(t, s, "a1", "ART-001", 10)
	boom := errors.New("boom")

	err := s.Run(context.Background(), func(requests repository.RequestRepository, articles repository.ArticleRepository) error {
		require.NoError(t, articles.SetStock(context.Background(), "a1", 3))
		_, err := requests.NextNumber(context.Background())
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	a, err := s.Articles().GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, 10, a.OnHand, "la existencia no debe cambiar si la transacción falla")

	n, err := s.Requests().NextNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "la secuencia tampoco debe avanzar")
}

func TestRunIntake_FailNextRevierteTodo(t *testing.T) {
	s := NewStore()
	seedArticle(t, s, "a1", "ART-001", 25)
	s.FailNext("entries.Create", nil)

	err := s.RunIntake(context.Background(), func(entries repository.EntryRepository, articles repository.ArticleRepository) error {
		if err := articles.SetStock(context.Background(), "a1", 35); err != nil {
			return err
		}
		return entries.Create(context.Background(), &entity.Entry{ID: "e1", EntryNumber: "EM-2025-0001", OrderNumber: "INDRHI-DAF-CD-2025-0001"})
	})
	require.ErrorIs(t, err, ErrInjected)

	a, _ := s.Articles().GetByID(context.Background(), "a1")
	assert.Equal(t, 25, a.OnHand)
	list, err := s.Entries().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRun_ContextoCancelado(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Run(ctx, func(repository.RequestRepository, repository.ArticleRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestArticles_StockNegativoYCodigoDuplicado(t *testing.T) {
	s := NewStore()
	seedArticle(t, s, "a1", "ART-001", 2)

	err := s.Articles().SetStock(context.Background(), "a1", -1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	err = s.Articles().Create(context.Background(), &entity.Article{ID: "a2", Code: "ART-001", Active: true})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, s.Articles().SoftDelete(context.Background(), "a1"))
	seedArticle(t, s, "a3", "ART-001", 0)
}

func TestRequests_ListaActivasOrdenadas(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedArticle(t, s, "a1", "ART-001", 10)
	require.NoError(t, s.Departments().Create(ctx, &entity.Department{ID: "d1", Code: "TI", Name: "Tecnología", Active: true}))

	for i, st := range []entity.RequestStatus{entity.StatusPending, entity.StatusApproved, entity.StatusPending} {
		n, err := s.Requests().NextNumber(ctx)
		require.NoError(t, err)
		require.NoError(t, s.Requests().Create(ctx, &entity.Request{
			ID: string(rune('x' + i)), Number: n, DepartmentID: "d1", Status: st, Active: true,
			Date:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Items: []entity.RequestItem{{ArticleID: "a1", Quantity: 2, Requested: 2}},
		}))
	}
	require.NoError(t, s.Requests().SoftDelete(ctx, "z"))

	list, err := s.Requests().List(ctx, entity.RequestFilter{Status: entity.StatusPending})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "x", list[0].ID)
	assert.Equal(t, "Tecnología", list[0].DepartmentName)
	assert.Equal(t, "ART-001", list[0].Items[0].ArticleCode)

	counts, err := s.Requests().CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[entity.StatusPending])
	assert.Equal(t, 1, counts[entity.StatusApproved])

	months, err := s.Requests().CountByMonth(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []entity.MonthlyCount{{Month: "2025-03", Count: 2}}, months)
}

func TestEntries_SecuenciaPorAnioYOrdenesUnicas(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	n1, _ := s.Entries().NextSequence(ctx, 2025)
	n2, _ := s.Entries().NextSequence(ctx, 2025)
	n3, _ := s.Entries().NextSequence(ctx, 2026)
	assert.Equal(t, []int{1, 2, 1}, []int{n1, n2, n3})

	require.NoError(t, s.Entries().Create(ctx, &entity.Entry{ID: "e1", EntryNumber: "EM-2025-0001", OrderNumber: "INDRHI-DAF-CD-2025-0001"}))
	err := s.Entries().Create(ctx, &entity.Entry{ID: "e2", EntryNumber: "EM-2025-0002", OrderNumber: "INDRHI-DAF-CD-2025-0001"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	orders, err := s.Entries().ListOrderNumbers(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, []string{"INDRHI-DAF-CD-2025-0001"}, orders)

	orders, err = s.Entries().ListOrderNumbers(ctx, 2024)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
