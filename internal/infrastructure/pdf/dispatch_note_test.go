package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indrhi/suministros-api/internal/domain/entity"
)

func TestRenderDispatchNote_GeneraPDF(t *testing.T) {
	at := time.Date(2025, 4, 2, 10, 30, 0, 0, time.UTC)
	req := &entity.Request{
		ID: "r1", Number: 17, Date: at.AddDate(0, 0, -3),
		DepartmentName: "Tecnología", Status: entity.StatusDispatched,
		CreatedBy: "Ana Pérez", DispatchedBy: "Mike Johnson", DispatchedAt: &at,
		Items: []entity.RequestItem{
			{ArticleID: "a1", ArticleCode: "ART-001", ArticleDescription: "Resma papel carta", Unit: "RESMA", Requested: 5, Quantity: 3},
			{ArticleID: "a2", ArticleCode: "ART-002", ArticleDescription: "Bolígrafo azul", Unit: "CAJA", Requested: 2, Quantity: 2},
		},
	}

	out, err := NewDispatchNoteRenderer().RenderDispatchNote(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}

func TestNonEmpty(t *testing.T) {
	assert.Equal(t, "x", nonEmpty("", "x"))
	assert.Equal(t, "y", nonEmpty("y", "x"))
}
