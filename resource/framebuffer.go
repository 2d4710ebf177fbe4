package resource

import (
	"github.com/vkngwrapper/core/v2/core1_0"
)

// FramebufferInfo describes a framebuffer at creation time.
type FramebufferInfo struct {
	Width  int
	Height int
	Layers int
}

// Framebuffer is a shared-ownership handle for a framebuffer. It co-owns its
// attachment views: rendering into a framebuffer must keep every attached view
// (and transitively its image) alive.
type Framebuffer struct {
	handle      core1_0.Framebuffer
	info        FramebufferInfo
	attachments []*ImageView
	life        refLife
}

// NewFramebuffer takes ownership of the attachment shares: the caller passes
// cloned views and the framebuffer releases them when its own last owner goes
// away.
func NewFramebuffer(handle core1_0.Framebuffer, info FramebufferInfo, attachments []*ImageView, owner Reclaimer, ownerUID uint64, index int) *Framebuffer {
	f := &Framebuffer{handle: handle, info: info, attachments: attachments}
	f.life.init(owner, ownerUID, index)
	return f
}

func (f *Framebuffer) Handle() core1_0.Framebuffer {
	return f.handle
}

func (f *Framebuffer) Info() FramebufferInfo {
	return f.info
}

func (f *Framebuffer) Index() int {
	return f.life.index
}

func (f *Framebuffer) OwnedBy(ownerUID uint64) bool {
	return f.life.ownerUID == ownerUID
}

func (f *Framebuffer) Clone() *Framebuffer {
	f.life.acquire()
	return f
}

func (f *Framebuffer) Release() {
	if f.life.release(KindFramebuffer) {
		for i, view := range f.attachments {
			view.Release()
			f.attachments[i] = nil
		}
		f.attachments = nil
	}
}

func (f *Framebuffer) References() int {
	return f.life.references()
}
