package softgl

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
)

// Fragment is the context a kernel runs with for one output pixel.
type Fragment struct {
	X, Y          int
	Width, Height int
	// Out holds one colour per output port, zeroed before each call.
	Out []Color

	inputs []*Texture
}

// NumInputs returns the number of input ports.
func (f *Fragment) NumInputs() int { return len(f.inputs) }

// Sample reads input port at the fragment position, using normalized
// coordinates so inputs of another size are sampled with nearest filtering.
func (f *Fragment) Sample(port int) Color {
	t := f.inputs[port]
	if t.format.Width == f.Width && t.format.Height == f.Height {
		return t.At(f.X, f.Y)
	}

	return t.At(f.X*t.format.Width/f.Width, f.Y*t.format.Height/f.Height)
}

// SampleAt reads input port at (x, y) in the texel space of the input.
func (f *Fragment) SampleAt(port, x, y int) Color {
	return f.inputs[port].At(x, y)
}

// Program runs a kernel over a framebuffer.
type Program struct {
	dev      *Device
	name     string
	kernel   Kernel
	inputs   []*Texture
	outputs  int
	released bool
}

var _ model.Program = (*Program)(nil)

func (p *Program) SetInput(port int, tex model.Texture) error {
	if port < 0 || port >= len(p.inputs) {
		return errors.Wrapf(ErrPort, "program %q has no input %d", p.name, port)
	}

	t, ok := tex.(*Texture)
	if !ok {
		return errors.Wrapf(ErrForeignResource, "program %q input %d", p.name, port)
	}

	p.inputs[port] = t

	return nil
}

// Render runs the kernel once per pixel of target. Inputs are unbound
// afterwards.
func (p *Program) Render(target model.Framebuffer) error {
	if p.released {
		return errors.Wrapf(ErrReleased, "program %q", p.name)
	}

	fb, ok := target.(*Framebuffer)
	if !ok {
		return errors.Wrapf(ErrForeignResource, "program %q target", p.name)
	}

	if fb.released {
		return errors.Wrapf(ErrReleased, "program %q target", p.name)
	}

	if len(fb.attachments) != p.outputs {
		return errors.Wrapf(ErrPort, "program %q writes %d outputs, target has %d attachments", p.name, p.outputs, len(fb.attachments))
	}

	defer clear(p.inputs)

	for i, in := range p.inputs {
		if in == nil {
			return errors.Wrapf(ErrPort, "program %q input %d is not set", p.name, i)
		}

		if err := in.Bind(i); err != nil {
			return errors.Wrapf(err, "program %q", p.name)
		}

		for _, out := range fb.attachments {
			if in == out {
				return errors.Wrapf(ErrFeedbackLoop, "program %q input %d", p.name, i)
			}
		}
	}

	err := p.draw(fb)
	if err != nil {
		return err
	}

	p.dev.mu.Lock()
	p.dev.stats.Passes++
	p.dev.mu.Unlock()

	return nil
}

// draw runs the kernel over row bands. A kernel panic fails its band and
// the pass; the attachments are then left partially written.
func (p *Program) draw(fb *Framebuffer) error {
	w, h := fb.format.Width, fb.format.Height
	bands := min(p.dev.workers, h)
	step := ceilDiv(h, bands)

	var g errgroup.Group
	g.SetLimit(bands)

	for y0 := 0; y0 < h; y0 += step {
		y1 := min(y0+step, h)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Wrapf(ErrKernelFailed, "program %q rows %d-%d: %v", p.name, y0, y1-1, r)
				}
			}()

			frag := &Fragment{Width: w, Height: h, Out: make([]Color, p.outputs), inputs: p.inputs}
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					frag.X, frag.Y = x, y
					clear(frag.Out)
					p.kernel(frag)

					for i, out := range fb.attachments {
						out.Set(x, y, frag.Out[i])
					}
				}
			}

			return nil
		})
	}

	return g.Wait()
}

func (p *Program) Release() error {
	if p.released {
		return errors.Wrapf(ErrReleased, "program %q released twice", p.name)
	}

	p.released = true

	p.dev.mu.Lock()
	p.dev.stats.LivePrograms--
	p.dev.mu.Unlock()

	return nil
}

func ceilDiv[T constraints.Integer](x, y T) T {
	return (x + y - 1) / y
}
