// Package pdf implementa el ticket imprimible del contrato de empeño.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Casa de Empeños + Sucursal  │  N° Contrato + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + Cédula                                   │
//	│  GARANTÍA: Artículo + Categoría + Descripción               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TÉRMINOS: Valor | Tasa | Plazo | Vencimiento               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: Cliente / Responsable de sucursal                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

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

	appcontratos "github.com/casaempenos/prestamos-api/internal/application/contratos"
	"github.com/casaempenos/prestamos-api/internal/domain/entity"
)

var _ appcontratos.TicketGenerator = (*MarotoTicketGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoTicketGenerator implementa contratos.TicketGenerator usando Maroto v2.
type MarotoTicketGenerator struct{}

// NewMarotoTicketGenerator construye el generador.
func NewMarotoTicketGenerator() *MarotoTicketGenerator { return &MarotoTicketGenerator{} }

// GenerarTicket genera el PDF del contrato y devuelve sus bytes.
func (g *MarotoTicketGenerator) GenerarTicket(c *entity.Contrato) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Contrato de empeño N° %d", c.Numero), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(c))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clienteRow(c))
	m.AddRows(garantiaRow(c))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(terminosRows(c)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(firmasRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar contrato: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la casa + sucursal (izq) y número + fecha (der).
func headerRow(c *entity.Contrato) core.Row {
	sucursal := c.Sucursal
	if sucursal == "" {
		sucursal = "Principal"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("CASA DE EMPEÑOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Sucursal: "+sucursal, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("CONTRATO DE EMPEÑO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("N° %d", c.Numero), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+c.Fecha.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// clienteRow: identidad del cliente.
func clienteRow(c *entity.Contrato) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s — C.C. %s", c.NombreCliente, c.Cedula), props.Text{Size: 9, Top: 6}),
		),
	)
}

// garantiaRow: artículo dejado en garantía.
func garantiaRow(c *entity.Contrato) core.Row {
	p := c.ProductoSnapshot
	descripcion := p.Descripcion
	if descripcion == "" {
		descripcion = "—"
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("GARANTÍA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s (%s)", p.Nombre, p.Categoria), props.Text{Size: 9, Top: 6}),
			text.New(descripcion, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

// terminosRows: tabla de términos del préstamo.
func terminosRows(c *entity.Contrato) []core.Row {
	tasa := "—"
	if c.Tasa != nil {
		tasa = c.Tasa.StringFixed(2) + " %"
	}
	plazo := "—"
	if c.Tiempo != nil {
		plazo = fmt.Sprintf("%d días", *c.Tiempo)
	}
	vencimiento := "—"
	if c.FechaPlazo != nil {
		vencimiento = c.FechaPlazo.Format("02/01/2006")
	}

	header := row.New(7).Add(
		col.New(3).Add(text.New("Valor del préstamo", props.Text{Style: fontstyle.Bold, Size: 8})),
		col.New(3).Add(text.New("Tasa mensual", props.Text{Style: fontstyle.Bold, Size: 8})),
		col.New(3).Add(text.New("Plazo", props.Text{Style: fontstyle.Bold, Size: 8})),
		col.New(3).Add(text.New("Vencimiento", props.Text{Style: fontstyle.Bold, Size: 8})),
	)
	valores := row.New(8).Add(
		col.New(3).Add(text.New("$ "+c.Valor.StringFixed(2), props.Text{Size: 10, Style: fontstyle.Bold})),
		col.New(3).Add(text.New(tasa, props.Text{Size: 10})),
		col.New(3).Add(text.New(plazo, props.Text{Size: 10})),
		col.New(3).Add(text.New(vencimiento, props.Text{Size: 10})),
	)
	return []core.Row{header, valores}
}

// firmasRow: espacios de firma.
func firmasRow() core.Row {
	return row.New(20).Add(
		col.New(6).Add(
			text.New("_______________________", props.Text{Size: 9, Top: 10, Align: align.Center}),
			text.New("Firma del cliente", props.Text{Size: 8, Top: 16, Align: align.Center, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("_______________________", props.Text{Size: 9, Top: 10, Align: align.Center}),
			text.New("Responsable de sucursal", props.Text{Size: 8, Top: 16, Align: align.Center, Color: colorGray}),
		),
	)
}
