package model

// ShaderSource references the shader program of a filter. The pipeline never
// reads the code itself, it is handed to the Device as is.
type ShaderSource struct {
	Name string
	Code string
}

// Texture is a read-only GPU image.
type Texture interface {
	// Format returns the size and pixel layout of the texture.
	Format() Format
	// ByteSize returns the storage size of the texture.
	ByteSize() int
	// Bind makes the texture readable from the given texture unit.
	Bind(unit int) error
}

// Framebuffer is a render target made of one or more textures sharing a format.
type Framebuffer interface {
	Format() Format
	// AttachmentCount returns the number of textures written by a single pass.
	AttachmentCount() int
	// Attachment returns the i-th output texture, nil if i is out of range.
	Attachment(i int) Texture
	ByteSize() int
	Release() error
}

// Program is a compiled shader driving one rendering pass.
type Program interface {
	// SetInput sets the texture read on the given input port during the next Render.
	SetInput(port int, texture Texture) error
	// Render runs one pass writing every output port into target.
	Render(target Framebuffer) error
	Release() error
}

// Device creates GPU resources.
type Device interface {
	NewFramebuffer(format Format, attachments int) (Framebuffer, error)
	// NewProgram compiles shader for the given input and output port names.
	NewProgram(shader ShaderSource, inputs, outputs []string) (Program, error)
}

// Flusher is implemented by devices able to wait for submitted commands.
// It is used to synchronise timings when performance monitoring is enabled.
type Flusher interface {
	Flush() error
}
