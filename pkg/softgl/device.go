package softgl

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
)

// Kernel computes the output colours of one fragment.
type Kernel func(frag *Fragment)

// Stats counts the resources created by a Device.
type Stats struct {
	Textures         int
	Framebuffers     int
	LiveFramebuffers int
	Programs         int
	LivePrograms     int
	Passes           int
	Flushes          int
}

// Device creates software textures, framebuffers and programs.
type Device struct {
	workers int

	mu      sync.Mutex
	kernels map[string]Kernel
	stats   Stats
}

// Option configures a Device.
type Option func(*Device)

// WithWorkers sets the number of row bands rendered concurrently.
func WithWorkers(n int) Option {
	return func(d *Device) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithKernel registers a kernel under name.
func WithKernel(name string, k Kernel) Option {
	return func(d *Device) {
		d.kernels[name] = k
	}
}

var (
	_ model.Device  = (*Device)(nil)
	_ model.Flusher = (*Device)(nil)
)

// NewDevice returns a device with the built-in kernels registered.
func NewDevice(opts ...Option) *Device {
	d := &Device{
		workers: runtime.GOMAXPROCS(0),
		kernels: make(map[string]Kernel, len(builtins)),
	}

	for name, k := range builtins {
		d.kernels[name] = k
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Register adds a kernel. Shader sources whose name is name will compile to it.
func (d *Device) Register(name string, k Kernel) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.kernels[name]; ok {
		return errors.Wrapf(ErrDuplicateKernel, "kernel %q", name)
	}

	d.kernels[name] = k

	return nil
}

// Stats returns a snapshot of the resource counters.
func (d *Device) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.stats
}

// NewTexture allocates a texture filled with transparent black.
func (d *Device) NewTexture(format model.Format) (*Texture, error) {
	t, err := newTexture(format)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create texture")
	}

	d.mu.Lock()
	d.stats.Textures++
	d.mu.Unlock()

	return t, nil
}

func (d *Device) NewFramebuffer(format model.Format, attachments int) (model.Framebuffer, error) {
	if attachments <= 0 {
		return nil, errors.Wrapf(ErrPort, "framebuffer needs at least one attachment, got %d", attachments)
	}

	fb := &Framebuffer{dev: d, format: format, attachments: make([]*Texture, attachments)}
	for i := range fb.attachments {
		t, err := d.NewTexture(format)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to create attachment %d", i)
		}

		fb.attachments[i] = t
	}

	d.mu.Lock()
	d.stats.Framebuffers++
	d.stats.LiveFramebuffers++
	d.mu.Unlock()

	return fb, nil
}

func (d *Device) NewProgram(shader model.ShaderSource, inputs, outputs []string) (model.Program, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	k, ok := d.kernels[shader.Name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKernel, "shader %q", shader.Name)
	}

	d.stats.Programs++
	d.stats.LivePrograms++

	return &Program{
		dev:     d,
		name:    shader.Name,
		kernel:  k,
		inputs:  make([]*Texture, len(inputs)),
		outputs: len(outputs),
	}, nil
}

// Flush is a no-op apart from counting: rendering is synchronous.
func (d *Device) Flush() error {
	d.mu.Lock()
	d.stats.Flushes++
	d.mu.Unlock()

	return nil
}
