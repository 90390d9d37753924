package softgl

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	xdraw "golang.org/x/image/draw"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
)

// Color is a non-premultiplied RGBA colour with components in [0, 1].
type Color [4]float32

// Texture is an in-memory image with 8 bits per channel.
type Texture struct {
	format   model.Format
	channels int
	pix      []uint8
	released bool
}

func newTexture(format model.Format) (*Texture, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	return &Texture{
		format:   format,
		channels: format.Channels(),
		pix:      make([]uint8, format.ByteSize()),
	}, nil
}

func (t *Texture) Format() model.Format { return t.format }
func (t *Texture) ByteSize() int        { return len(t.pix) }

// Bind checks the texture can be sampled.
func (t *Texture) Bind(unit int) error {
	if t.released {
		return errors.Wrapf(ErrReleased, "texture bound on unit %d", unit)
	}

	return nil
}

// At returns the colour at (x, y), clamped to the texture edges.
func (t *Texture) At(x, y int) Color {
	x = clamp(x, 0, t.format.Width-1)
	y = clamp(y, 0, t.format.Height-1)
	off := (y*t.format.Width + x) * t.channels
	p := t.pix[off : off+t.channels]

	switch t.format.Pixel {
	case gputypes.TextureFormatR8Unorm:
		return Color{unorm(p[0]), 0, 0, 1}
	case gputypes.TextureFormatBGRA8Unorm:
		return Color{unorm(p[2]), unorm(p[1]), unorm(p[0]), unorm(p[3])}
	default:
		return Color{unorm(p[0]), unorm(p[1]), unorm(p[2]), unorm(p[3])}
	}
}

// Set writes c at (x, y), which must be inside the texture.
func (t *Texture) Set(x, y int, c Color) {
	off := (y*t.format.Width + x) * t.channels
	p := t.pix[off : off+t.channels]

	switch t.format.Pixel {
	case gputypes.TextureFormatR8Unorm:
		p[0] = quantize(c[0])
	case gputypes.TextureFormatBGRA8Unorm:
		p[0], p[1], p[2], p[3] = quantize(c[2]), quantize(c[1]), quantize(c[0]), quantize(c[3])
	default:
		p[0], p[1], p[2], p[3] = quantize(c[0]), quantize(c[1]), quantize(c[2]), quantize(c[3])
	}
}

// Image downloads the texture.
func (t *Texture) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.format.Width, t.format.Height))

	for y := 0; y < t.format.Height; y++ {
		for x := 0; x < t.format.Width; x++ {
			c := t.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: quantize(c[0]), G: quantize(c[1]), B: quantize(c[2]), A: quantize(c[3])})
		}
	}

	return img
}

// Fill sets every pixel to c.
func (t *Texture) Fill(c Color) {
	for y := 0; y < t.format.Height; y++ {
		for x := 0; x < t.format.Width; x++ {
			t.Set(x, y, c)
		}
	}
}

// Upload creates a texture with the given format from img, rescaling it
// when sizes differ.
func (d *Device) Upload(img image.Image, format model.Format) (*Texture, error) {
	t, err := d.NewTexture(format)
	if err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(image.Rect(0, 0, format.Width, format.Height))
	if img.Bounds().Dx() == format.Width && img.Bounds().Dy() == format.Height {
		xdraw.Copy(dst, image.Point{}, img, img.Bounds(), xdraw.Src, nil)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	}

	for y := 0; y < format.Height; y++ {
		for x := 0; x < format.Width; x++ {
			c := dst.NRGBAAt(x, y)
			t.Set(x, y, Color{unorm(c.R), unorm(c.G), unorm(c.B), unorm(c.A)})
		}
	}

	return t, nil
}

func unorm(v uint8) float32 {
	return float32(v) / 255
}

func quantize(v float32) uint8 {
	return uint8(clamp(v, 0, 1)*255 + 0.5)
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
