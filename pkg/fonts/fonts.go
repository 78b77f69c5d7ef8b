// Package fonts resolves named typography presets to usable fonts.
//
// A preset names a label typeface by intent ("inter", "jetbrains-mono",
// "sans") rather than by file path. Resolution walks the preset's candidate
// list through the system font directories and falls back to DejaVu Sans
// before giving up, so a poster renders with a reasonable face on machines
// that lack the first choice. SVG output never needs a font file: each preset
// also carries a CSS family stack.
package fonts

import (
	"os"
	"sort"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/mkoster/pibauhaus/pkg/errors"
)

// DefaultPreset is the preset used when the configuration names none.
const DefaultPreset = "inter"

// Preset describes one named typeface choice.
type Preset struct {
	Name string

	// Files are candidate font file names, tried in order against the
	// system font directories.
	Files []string

	// CSSStack is the font-family value emitted into SVG output.
	CSSStack string
}

// fallbackFiles closes every resolution chain. DejaVu Sans ships with most
// Linux distributions and every common CI image.
var fallbackFiles = []string{"DejaVuSans-Bold.ttf", "DejaVuSans.ttf"}

var presets = map[string]Preset{
	"inter": {
		Name:     "inter",
		Files:    []string{"Inter-Bold.ttf", "Inter-SemiBold.ttf", "Inter-Regular.ttf"},
		CSSStack: `'Inter', 'Helvetica Neue', Arial, sans-serif`,
	},
	"jetbrains-mono": {
		Name:     "jetbrains-mono",
		Files:    []string{"JetBrainsMono-Bold.ttf", "JetBrainsMono-Regular.ttf"},
		CSSStack: `'JetBrains Mono', 'Fira Mono', Menlo, monospace`,
	},
	"sans": {
		Name:     "sans",
		Files:    []string{"DejaVuSans-Bold.ttf", "Arial Bold.ttf", "Arial.ttf"},
		CSSStack: `'DejaVu Sans', Arial, sans-serif`,
	},
}

// Names returns the registered preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the preset registered under name.
func Lookup(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, errors.New(errors.ErrCodeFontNotFound, "unknown font preset %q (have: %v)", name, Names())
	}
	return p, nil
}

// CSSStack returns the SVG font-family stack for a preset. Unknown presets
// get the sans stack so SVG rendering never fails on typography.
func CSSStack(name string) string {
	if p, ok := presets[name]; ok {
		return p.CSSStack
	}
	return presets["sans"].CSSStack
}

// Resolve locates a font file for the preset. The preset's own candidates are
// tried first, then the DejaVu fallback chain; only when every candidate is
// missing does resolution fail.
func Resolve(name string) (string, error) {
	p, err := Lookup(name)
	if err != nil {
		return "", err
	}

	for _, file := range append(append([]string{}, p.Files...), fallbackFiles...) {
		if path, err := findfont.Find(file); err == nil {
			return path, nil
		}
	}

	return "", errors.New(errors.ErrCodeFontNotFound, "no font file found for preset %q (tried %v and fallbacks)", name, p.Files)
}

// faceCache holds parsed fonts keyed by resolved file path. Parsing a TTF is
// far more expensive than a map lookup, and posters request the same face at
// many sizes.
var faceCache = struct {
	sync.Mutex
	fonts map[string]*truetype.Font
}{fonts: make(map[string]*truetype.Font)}

// Face returns a font.Face for the preset at the given pixel size.
func Face(name string, size float64) (font.Face, error) {
	path, err := Resolve(name)
	if err != nil {
		return nil, err
	}

	f, err := parseCached(path)
	if err != nil {
		return nil, err
	}

	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72}), nil
}

func parseCached(path string) (*truetype.Font, error) {
	faceCache.Lock()
	defer faceCache.Unlock()

	if f, ok := faceCache.fonts[path]; ok {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "reading font file %s", path)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "parsing font file %s", path)
	}

	faceCache.fonts[path] = f
	return f, nil
}
