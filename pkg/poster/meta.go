package poster

import "github.com/mkoster/pibauhaus/pkg/digits"

// Metadata echoes the resolved run parameters into artifacts and the API.
// Every field is a pure function of the configuration, so identical configs
// produce identical metadata.
type Metadata struct {
	Precision       int         `json:"precision"`        // digits generated
	CellsPlaced     int         `json:"cells_placed"`     // digits actually on the page
	Capacity        int         `json:"capacity"`         // cells the page can hold
	Columns         int         `json:"columns"`          // main grid columns
	MainRows        int         `json:"main_rows"`        // uniform rows above the perspective band
	PerspectiveRows int         `json:"perspective_rows"` // rows placed in the perspective band
	PageWidthPx     int         `json:"page_width_px"`
	PageHeightPx    int         `json:"page_height_px"`
	Shrink          float64     `json:"shrink"`
	Labels          bool        `json:"labels"`
	FontPreset      string      `json:"font_preset,omitempty"`
	Feynman         *digits.Run `json:"feynman,omitempty"` // nil when the stream holds no run
	ConfigHash      string      `json:"config_hash,omitempty"`
}
