// Package pdf genera el conduce de despacho de una solicitud.
//
// Layout de la página carta:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  INDRHI + Dirección Adm. │ CONDUCE N° + Fecha despacho       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Departamento solicitante / Solicitado por                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Descripción | Unidad | Solicitado | Entreg. │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: Despachado por │ Recibido por                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/indrhi/suministros-api/internal/application/ports"
	"github.com/indrhi/suministros-api/internal/domain/entity"
)

// ── Paleta ────────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 84, Blue: 147}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const institution = "INSTITUTO NACIONAL DE RECURSOS HIDRÁULICOS"

var _ ports.DispatchNoteRenderer = (*DispatchNoteRenderer)(nil)

// DispatchNoteRenderer arma el conduce con Maroto v2.
type DispatchNoteRenderer struct{}

// NewDispatchNoteRenderer construye el generador.
func NewDispatchNoteRenderer() *DispatchNoteRenderer { return &DispatchNoteRenderer{} }

// RenderDispatchNote devuelve los bytes del PDF.
func (g *DispatchNoteRenderer) RenderDispatchNote(_ context.Context, req *entity.Request) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Conduce de despacho %d", req.Number), true).
		WithAuthor("INDRHI - Suministros", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(req))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(requesterRow(req))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(req.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(req.Items))

	m.AddRows(row.New(20))
	m.AddRows(signatureRow(req))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar conduce: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(req *entity.Request) core.Row {
	dispatched := "—"
	if req.DispatchedAt != nil {
		dispatched = req.DispatchedAt.Format("02/01/2006 15:04")
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New(institution, props.Text{Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 1}),
			text.New("Dirección Administrativa y Financiera - Suministros", props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("CONDUCE DE DESPACHO", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New("Solicitud N° "+strconv.FormatInt(req.Number, 10), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Despachado: "+dispatched, props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func requesterRow(req *entity.Request) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("DEPARTAMENTO SOLICITANTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(req.DepartmentName, req.DepartmentID), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
		col.New(4).Add(
			text.New("Solicitado por: "+nonEmpty(req.CreatedBy, "—"), props.Text{Size: 8, Align: align.Right, Top: 2, Color: colorGray}),
			text.New("Fecha solicitud: "+req.Date.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Descripción", 5, align.Left),
		h("Unidad", 2, align.Center),
		h("Solicitado", 1, align.Right),
		h("Entregado", 2, align.Right),
	)
}

func itemRows(items []entity.RequestItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		out = append(out, row.New(7).Add(
			col.New(2).Add(text.New(it.ArticleCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(it.ArticleDescription, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(strconv.Itoa(it.Requested), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(strconv.Itoa(it.Quantity), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func totalRow(items []entity.RequestItem) core.Row {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return row.New(8).Add(
		col.New(10).Add(text.New("Total de unidades entregadas:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 2})),
		col.New(2).Add(text.New(strconv.Itoa(total), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1, Color: colorPrimary})),
	)
}

func signatureRow(req *entity.Request) core.Row {
	sign := func(title, name string) core.Col {
		return col.New(6).Add(
			text.New("______________________________", props.Text{Align: align.Center}),
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 5}),
			text.New(name, props.Text{Size: 8, Align: align.Center, Top: 10, Color: colorGray}),
		)
	}
	return row.New(18).Add(
		sign("Despachado por", nonEmpty(req.DispatchedBy, "")),
		sign("Recibido por", nonEmpty(req.DepartmentName, "")),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
