package sink

import (
	"bytes"

	"github.com/disintegration/imaging"

	"github.com/mkoster/pibauhaus/pkg/errors"
)

// DefaultThumbEdge is the default bounding-box edge for thumbnails.
const DefaultThumbEdge = 600

// Thumbnail downscales a rendered PNG to fit inside maxEdge x maxEdge,
// preserving aspect ratio. Lanczos resampling keeps the thin motifs readable
// at preview size.
func Thumbnail(pngData []byte, maxEdge int) ([]byte, error) {
	if maxEdge <= 0 {
		maxEdge = DefaultThumbEdge
	}

	img, err := imaging.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "decoding poster png")
	}

	thumb := imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encoding thumbnail png")
	}
	return buf.Bytes(), nil
}
