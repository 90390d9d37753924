package model

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/pkg/errors"
)

// ErrInvalidFormat is returned when a format cannot back a texture.
var ErrInvalidFormat = errors.New("invalid format")

// Format describes the storage of a texture: its size and pixel layout.
// Two formats are compatible for buffer reuse if and only if they are equal.
type Format struct {
	Width  int
	Height int
	Pixel  gputypes.TextureFormat
}

// Channels returns the number of colour channels of the pixel layout,
// or 0 if the layout is not supported.
func (f Format) Channels() int {
	switch f.Pixel {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4
	default:
		return 0
	}
}

// BytesPerPixel returns the storage size of one pixel.
func (f Format) BytesPerPixel() int {
	// all supported layouts are 8 bits per channel.
	return f.Channels()
}

// ByteSize returns the storage size of one texture with this format.
func (f Format) ByteSize() int {
	return f.Width * f.Height * f.BytesPerPixel()
}

// Validate checks the format can be allocated.
func (f Format) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return errors.Wrapf(ErrInvalidFormat, "size %dx%d", f.Width, f.Height)
	}

	if f.Channels() == 0 {
		return errors.Wrapf(ErrInvalidFormat, "unsupported pixel layout %d", f.Pixel)
	}

	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%dx%d %s", f.Width, f.Height, PixelName(f.Pixel))
}

var pixelNames = map[gputypes.TextureFormat]string{
	gputypes.TextureFormatR8Unorm:    "R8",
	gputypes.TextureFormatRGBA8Unorm: "RGBA8",
	gputypes.TextureFormatBGRA8Unorm: "BGRA8",
}

// PixelName returns the short name of a supported pixel layout.
func PixelName(pixel gputypes.TextureFormat) string {
	if name, ok := pixelNames[pixel]; ok {
		return name
	}

	return fmt.Sprintf("unknown(%d)", pixel)
}

// PixelByName is the inverse of PixelName.
func PixelByName(name string) (gputypes.TextureFormat, error) {
	for pixel, n := range pixelNames {
		if n == name {
			return pixel, nil
		}
	}

	return gputypes.TextureFormatUndefined, errors.Wrapf(ErrInvalidFormat, "unknown pixel layout %q", name)
}
