// Package fonts provides the font files bundled with orca.
//
// The fonts come from Go module packages (the Go fonts from
// golang.org/x/image and Latin Modern from github.com/go-fonts), so they are
// compiled into the binary and need no files at runtime.
package fonts

import (
	"encoding/base64"
	"slices"
	"sync"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/orca/pkg/errors"
)

// Format is the outline format of a font file.
type Format string

const (
	// TTF fonts have TrueType (quadratic) outlines.
	TTF Format = "ttf"
	// OTF fonts have CFF (cubic) outlines.
	OTF Format = "otf"
)

// Default is the font used when none is configured.
const Default = "gomono"

// Font is one bundled font file.
type Font struct {
	Name   string
	Family string // CSS font-family name
	Format Format
	Mono   bool
	Data   []byte
}

// Base64 returns the font data as a base64 string, for data URLs.
// The result is cached after first computation.
func (f Font) Base64() string {
	v, _ := encoded.LoadOrStore(f.Name, sync.OnceValue(func() string {
		return base64.StdEncoding.EncodeToString(f.Data)
	}))
	return v.(func() string)()
}

// MIME returns the media type of the font data.
func (f Font) MIME() string {
	if f.Format == OTF {
		return "font/otf"
	}
	return "font/ttf"
}

var encoded sync.Map

var registry = map[string]Font{
	"gomono":    {Name: "gomono", Family: "Go Mono", Format: TTF, Mono: true, Data: gomono.TTF},
	"goregular": {Name: "goregular", Family: "Go", Format: TTF, Data: goregular.TTF},
	"lmmono10":  {Name: "lmmono10", Family: "Latin Modern Mono", Format: OTF, Mono: true, Data: lmmono10regular.TTF},
	"lmroman10": {Name: "lmroman10", Family: "Latin Modern Roman", Format: OTF, Data: lmroman10regular.TTF},
}

// Lookup returns the bundled font with the given name.
// An empty name selects Default.
func Lookup(name string) (Font, error) {
	if name == "" {
		name = Default
	}
	f, ok := registry[name]
	if !ok {
		return Font{}, errors.New(errors.ErrCodeFontNotFound, "unknown font %q (available: %v)", name, Names())
	}
	return f, nil
}

// Names returns the names of all bundled fonts, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// FallbackFamily lists CSS fallbacks for viewers without the embedded font.
func FallbackFamily(f Font) string {
	if f.Mono {
		return `'` + f.Family + `', 'DejaVu Sans Mono', Menlo, monospace`
	}
	return `'` + f.Family + `', 'Helvetica Neue', Arial, sans-serif`
}
