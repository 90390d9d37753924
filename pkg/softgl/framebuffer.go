package softgl

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-shaderpipe/pkg/pipeline/model"
)

// Framebuffer groups attachments of the same format a pass renders to.
type Framebuffer struct {
	dev         *Device
	format      model.Format
	attachments []*Texture
	released    bool
}

var _ model.Framebuffer = (*Framebuffer)(nil)

func (fb *Framebuffer) Format() model.Format { return fb.format }
func (fb *Framebuffer) AttachmentCount() int { return len(fb.attachments) }
func (fb *Framebuffer) ByteSize() int        { return fb.format.ByteSize() * len(fb.attachments) }

// Attachment returns the i-th attachment or nil when out of range.
func (fb *Framebuffer) Attachment(i int) model.Texture {
	if i < 0 || i >= len(fb.attachments) {
		return nil
	}

	return fb.attachments[i]
}

// Texture is Attachment without the interface conversion.
func (fb *Framebuffer) Texture(i int) *Texture {
	if i < 0 || i >= len(fb.attachments) {
		return nil
	}

	return fb.attachments[i]
}

func (fb *Framebuffer) Release() error {
	if fb.released {
		return errors.Wrap(ErrReleased, "framebuffer released twice")
	}

	fb.released = true
	for _, t := range fb.attachments {
		t.released = true
	}

	fb.dev.mu.Lock()
	fb.dev.stats.LiveFramebuffers--
	fb.dev.mu.Unlock()

	return nil
}
