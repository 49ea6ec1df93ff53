package sink

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/layout"
)

// MaxCanvasSide bounds either side of a raster surface, after scaling.
const MaxCanvasSide = 16384

// PNGOption configures PNG rendering via [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	width, height int
	margin        int
	scale         int
}

// WithCanvas fixes the surface size. Nodes outside it are clipped.
// Zero sizes the surface to the layout's extent.
func WithCanvas(w, h int) PNGOption {
	return func(r *pngRenderer) { r.width, r.height = w, h }
}

// WithPNGMargin pads an automatically sized surface on every side.
func WithPNGMargin(px int) PNGOption { return func(r *pngRenderer) { r.margin = px } }

// WithScale enlarges the image by an integer factor (default 1).
func WithScale(s int) PNGOption { return func(r *pngRenderer) { r.scale = s } }

// offset shifts every blit by a fixed amount.
type offset struct {
	d      layout.Drawer[*image.Gray]
	dx, dy int
}

func (o offset) Blit(token string, at layout.Pos, dst *image.Gray) error {
	return o.d.Blit(token, layout.Pos{X: at.X + o.dx, Y: at.Y + o.dy}, dst)
}

// Rasterize draws the layout onto a fresh grayscale surface, white on black.
// The surface size is fixed before any node is drawn.
func Rasterize(l *layout.Layout, d layout.Drawer[*image.Gray], opts ...PNGOption) (*image.Gray, error) {
	r := newPNGRenderer(opts)
	w, h := r.width, r.height
	dx, dy := 0, 0
	if w == 0 || h == 0 {
		ew, eh := l.Extent()
		if w == 0 {
			w, dx = ew+2*r.margin, r.margin
		}
		if h == 0 {
			h, dy = eh+2*r.margin, r.margin
		}
	}
	if w <= 0 || h <= 0 || w*r.scale > MaxCanvasSide || h*r.scale > MaxCanvasSide {
		return nil, errors.New(errors.ErrCodeInvalidInput, "canvas %dx%d (x%d) outside 1..%d", w, h, r.scale, MaxCanvasSide)
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	if err := layout.Draw(l, offset{d: d, dx: dx, dy: dy}, dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// RenderPNG rasterizes the layout and encodes it as PNG.
func RenderPNG(l *layout.Layout, d layout.Drawer[*image.Gray], opts ...PNGOption) ([]byte, error) {
	r := newPNGRenderer(opts)
	img, err := Rasterize(l, d, opts...)
	if err != nil {
		return nil, err
	}

	var out image.Image = img
	if r.scale > 1 {
		b := img.Bounds()
		out = imaging.Resize(img, b.Dx()*r.scale, b.Dy()*r.scale, imaging.NearestNeighbor)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode png")
	}
	return buf.Bytes(), nil
}

func newPNGRenderer(opts []PNGOption) pngRenderer {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	r.scale = max(r.scale, 1)
	return r
}
