// Package layout places the digit grid on the page.
//
// Placement is pure geometry: cells carry positions and sizes but no digits
// or colors. The page splits into a uniform main grid and a perspective band
// below it, where rows shrink geometrically and gain columns so the cell
// stream appears to recede toward the bottom edge.
package layout

import (
	"math"

	"github.com/mkoster/pibauhaus/pkg/poster"
)

// Zone names the band a cell belongs to.
type Zone string

// Zones of the page.
const (
	ZoneMain        Zone = "main"
	ZonePerspective Zone = "perspective"
)

// Cell is one placed slot in reading order. Index is the zero-based position
// in the digit stream that will fill it.
type Cell struct {
	Index     int     `json:"index"`
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	ColsInRow int     `json:"cols_in_row"`
	Zone      Zone    `json:"zone"`
	CX        float64 `json:"cx"`
	CY        float64 `json:"cy"`
	Base      float64 `json:"base"` // motif base size, min(cell width, row height)
}

// Row summarizes one placed row.
type Row struct {
	Row    int     `json:"row"`
	Zone   Zone    `json:"zone"`
	Cols   int     `json:"cols"`   // planned column count
	Placed int     `json:"placed"` // cells actually holding digits
	CellW  float64 `json:"cell_w"`
	RowH   float64 `json:"row_h"`
	CY     float64 `json:"cy"`
}

// Layout is the placed grid at full page capacity.
type Layout struct {
	PageW, PageH     int
	MarginX, MarginY float64
	InnerW, InnerH   float64
	RowHeight        float64 // nominal main-grid row height

	Cells []Cell
	Rows  []Row
}

// Capacity returns the number of cells the page holds.
func (l *Layout) Capacity() int {
	return len(l.Cells)
}

// Build places every cell the page can hold under cfg. Digits come later;
// the same config always yields the same geometry.
func Build(cfg poster.Config) (*Layout, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pageW := cfg.Page.WidthPx()
	pageH := cfg.Page.HeightPx()
	marginX := float64(pageW) * cfg.Page.MarginRatio
	marginY := float64(pageH) * cfg.Page.MarginRatio
	innerW := float64(pageW) - 2*marginX
	innerH := float64(pageH) - 2*marginY
	rowH := innerH / float64(cfg.Grid.Rows)

	l := &Layout{
		PageW:     pageW,
		PageH:     pageH,
		MarginX:   marginX,
		MarginY:   marginY,
		InnerW:    innerW,
		InnerH:    innerH,
		RowHeight: rowH,
	}

	// Uniform main grid.
	mainRows := cfg.Grid.PerspectiveStartRow
	cellW := innerW / float64(cfg.Grid.Columns)
	base := math.Min(cellW, rowH)
	index := 0

	for row := 0; row < mainRows; row++ {
		cy := marginY + (float64(row)+0.5)*rowH
		l.Rows = append(l.Rows, Row{
			Row:    row,
			Zone:   ZoneMain,
			Cols:   cfg.Grid.Columns,
			Placed: cfg.Grid.Columns,
			CellW:  cellW,
			RowH:   rowH,
			CY:     cy,
		})
		for col := 0; col < cfg.Grid.Columns; col++ {
			l.Cells = append(l.Cells, Cell{
				Index:     index,
				Row:       row,
				Col:       col,
				ColsInRow: cfg.Grid.Columns,
				Zone:      ZoneMain,
				CX:        marginX + (float64(col)+0.5)*cellW,
				CY:        cy,
				Base:      base,
			})
			index++
		}
	}

	// Perspective band: each step shrinks the row height and widens the
	// column count, packing rows until the page bottom or the minimum
	// row height ends the zone.
	top := marginY + float64(mainRows)*rowH
	bottom := marginY + innerH
	y := top
	rowID := mainRows

	// Sub-epsilon remainders are rounding residue, not rows.
	const heightEps = 1e-6

	for k := 0; bottom-y > heightEps; k++ {
		h := rowH * math.Pow(cfg.Grid.Shrink, float64(k))
		if h < cfg.Grid.MinRowHeightPx {
			break
		}
		if y+h > bottom {
			h = bottom - y
			if h <= heightEps {
				break
			}
		}

		cols := int(math.Round(float64(cfg.Grid.Columns) * math.Pow(1/cfg.Grid.Shrink, float64(k))))
		if cols < cfg.Grid.Columns {
			cols = cfg.Grid.Columns
		}
		w := innerW / float64(cols)
		cy := y + h/2
		b := math.Min(w, h)

		l.Rows = append(l.Rows, Row{
			Row:    rowID,
			Zone:   ZonePerspective,
			Cols:   cols,
			Placed: cols,
			CellW:  w,
			RowH:   h,
			CY:     cy,
		})
		for col := 0; col < cols; col++ {
			l.Cells = append(l.Cells, Cell{
				Index:     index,
				Row:       rowID,
				Col:       col,
				ColsInRow: cols,
				Zone:      ZonePerspective,
				CX:        marginX + (float64(col)+0.5)*w,
				CY:        cy,
				Base:      b,
			})
			index++
		}

		y += h
		rowID++
	}

	return l, nil
}

// Truncate limits the layout to its first n cells.
//
// A partial main-grid row keeps its cells in place, so index i still sits at
// column i mod columns. A partial perspective row is re-centered instead:
// its cell width stays that of the planned count, but the placed cells
// spread symmetrically around the page center.
func (l *Layout) Truncate(n int) *Layout {
	if n <= 0 || n >= len(l.Cells) {
		return l
	}

	out := &Layout{
		PageW:     l.PageW,
		PageH:     l.PageH,
		MarginX:   l.MarginX,
		MarginY:   l.MarginY,
		InnerW:    l.InnerW,
		InnerH:    l.InnerH,
		RowHeight: l.RowHeight,
		Cells:     append([]Cell(nil), l.Cells[:n]...),
	}

	for _, row := range l.Rows {
		remaining := n - rowStartIndex(l, row.Row)
		if remaining <= 0 {
			break
		}
		placed := row.Placed
		if remaining < placed {
			placed = remaining
		}
		row.Placed = placed
		out.Rows = append(out.Rows, row)
	}

	last := &out.Rows[len(out.Rows)-1]
	if last.Zone == ZonePerspective && last.Placed < last.Cols {
		centerX := l.MarginX + l.InnerW/2
		start := rowStartIndex(l, last.Row)
		for i := start; i < n; i++ {
			c := &out.Cells[i]
			c.CX = centerX + (float64(c.Col)-float64(last.Placed-1)/2)*last.CellW
		}
	}

	return out
}

// rowStartIndex returns the stream index of the first cell in the given row.
func rowStartIndex(l *Layout, row int) int {
	start := 0
	for _, r := range l.Rows {
		if r.Row == row {
			return start
		}
		start += r.Cols
	}
	return start
}
