package sink

import (
	"encoding/json"

	"github.com/mkoster/pibauhaus/pkg/compose"
	"github.com/mkoster/pibauhaus/pkg/errors"
)

// RenderJSON exports the full plan as a pretty-printed JSON document. This is
// the primary interchange format for pibauhaus, enabling:
//
//   - Reproducibility audits (metadata echoes every resolved parameter)
//   - Caching computed plans for fast re-rendering
//   - External tooling over the instruction list
//
// Field order is fixed by the struct definitions, so output is byte-stable.
func RenderJSON(p *compose.Plan) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encoding plan json")
	}
	return append(data, '\n'), nil
}
