// Package face measures and draws tokens with an outline font.
//
// A [Press] implements layout.Measurer and layout.Drawer[*image.Gray].
// TrueType fonts are loaded with github.com/golang/freetype/truetype and
// OpenType (CFF) fonts with golang.org/x/image/font/opentype; both end up
// behind the same font.Face.
//
// Tokens are drawn white on the surface, with the pen on the baseline one
// ascent below the node's position, so a node's box spans
// [x, x+advance) by [y, y+lineHeight).
package face

import (
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/fonts"
	"github.com/matzehuels/orca/pkg/layout"
)

// Defaults and accepted ranges for Options.
const (
	DefaultSize = 12
	DefaultDPI  = 96

	MinSize, MaxSize = 1, 512
	MinDPI, MaxDPI   = 18, 1200
)

// ValidateMetrics rejects a size or DPI outside the accepted ranges, NaN
// included, with errors.ErrCodeInvalidConfig.
func ValidateMetrics(size, dpi float64) error {
	if !(size >= MinSize && size <= MaxSize) || !(dpi >= MinDPI && dpi <= MaxDPI) {
		return errors.New(errors.ErrCodeInvalidConfig, "font size must be %d..%dpt and dpi %d..%d (got %gpt at %g dpi)",
			MinSize, MaxSize, MinDPI, MaxDPI, size, dpi)
	}
	return nil
}

// Options configures a Press.
type Options struct {
	Font   string  // bundled font name, see fonts.Names
	Size   float64 // points
	DPI    float64
	Logger *log.Logger
}

// Press is a font handle. It is safe for concurrent use.
type Press struct {
	font       fonts.Font
	face       font.Face
	hasGlyph   func(r rune) bool
	ascent     int
	lineHeight int

	mu sync.Mutex
}

var _ layout.Measurer = (*Press)(nil)
var _ layout.Drawer[*image.Gray] = (*Press)(nil)

// New loads the configured font.
// Unknown fonts fail with errors.ErrCodeFontNotFound, fonts that cannot be
// parsed with errors.ErrCodeFont.
func New(opts Options) (*Press, error) {
	if opts.Size == 0 {
		opts.Size = DefaultSize
	}
	if opts.DPI == 0 {
		opts.DPI = DefaultDPI
	}
	if err := ValidateMetrics(opts.Size, opts.DPI); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	f, err := fonts.Lookup(opts.Font)
	if err != nil {
		return nil, err
	}

	p := &Press{font: f}
	switch f.Format {
	case fonts.TTF:
		tf, err := truetype.Parse(f.Data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFont, err, "parse %s", f.Name)
		}
		p.face = truetype.NewFace(tf, &truetype.Options{
			Size:    opts.Size,
			DPI:     opts.DPI,
			Hinting: font.HintingFull,
		})
		p.hasGlyph = func(r rune) bool { return tf.Index(r) != 0 }
	case fonts.OTF:
		sf, err := opentype.Parse(f.Data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFont, err, "parse %s", f.Name)
		}
		p.face, err = opentype.NewFace(sf, &opentype.FaceOptions{
			Size:    opts.Size,
			DPI:     opts.DPI,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFont, err, "load %s", f.Name)
		}
		var buf sfnt.Buffer
		p.hasGlyph = func(r rune) bool {
			ix, err := sf.GlyphIndex(&buf, r)
			return err == nil && ix != 0
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "font %s has unsupported format %q", f.Name, f.Format)
	}

	m := p.face.Metrics()
	p.ascent = m.Ascent.Ceil()
	p.lineHeight = m.Height.Ceil()
	if p.lineHeight <= 0 {
		p.lineHeight = int(1.5*opts.Size*opts.DPI/72 + 0.5)
		logger.Warn("font has no line height, using 1.5x size", "font", f.Name, "line_height", p.lineHeight)
	}
	// Descenders must stay inside the node's box.
	p.lineHeight = max(p.lineHeight, p.ascent+m.Descent.Ceil())
	logger.Debug("Loaded font", "font", f.Name, "format", f.Format, "size", opts.Size, "dpi", opts.DPI,
		"ascent", p.ascent, "line_height", p.lineHeight)
	return p, nil
}

// Font returns the loaded font.
func (p *Press) Font() fonts.Font { return p.font }

// Ascent returns the distance from a node's top edge to its baseline.
func (p *Press) Ascent() int { return p.ascent }

// LineHeight returns the height of every measured token.
func (p *Press) LineHeight() int { return p.lineHeight }

// Measure returns the token's advance width, rounded up, by the line height.
func (p *Press) Measure(token string) (layout.Fit, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.check(token); err != nil {
		return layout.Fit{}, err
	}
	adv := font.MeasureString(p.face, token)
	return layout.Fit{W: adv.Ceil(), H: p.lineHeight}, nil
}

// Blit draws token onto dst with its top-left corner at at.
// Pixels outside dst are clipped.
func (p *Press) Blit(token string, at layout.Pos, dst *image.Gray) error {
	if dst == nil {
		return fmt.Errorf("no surface")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.check(token); err != nil {
		return err
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: p.face,
		Dot:  fixed.P(at.X, at.Y+p.ascent),
	}
	d.DrawString(token)
	return nil
}

// Close releases the face.
func (p *Press) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.face.Close()
}

func (p *Press) check(token string) error {
	for _, r := range token {
		if r == ' ' {
			continue
		}
		if !p.hasGlyph(r) {
			return fmt.Errorf("font %s has no glyph for %q", p.font.Name, r)
		}
	}
	return nil
}
