package resource

import (
	"github.com/vkngwrapper/core/v2/core1_0"
)

// BufferInfo describes a buffer at creation time.
type BufferInfo struct {
	Size  int
	Usage core1_0.BufferUsageFlags
}

// Buffer is a shared-ownership handle for a GPU buffer object. Clone is cheap
// and increments the ownership count; the Release that drops the count to zero
// routes the buffer back to its owning device for native destruction.
type Buffer struct {
	handle core1_0.Buffer
	info   BufferInfo
	life   refLife
}

func NewBuffer(handle core1_0.Buffer, info BufferInfo, owner Reclaimer, ownerUID uint64, index int) *Buffer {
	b := &Buffer{handle: handle, info: info}
	b.life.init(owner, ownerUID, index)
	return b
}

func (b *Buffer) Handle() core1_0.Buffer {
	return b.handle
}

func (b *Buffer) Info() BufferInfo {
	return b.info
}

func (b *Buffer) Index() int {
	return b.life.index
}

// OwnedBy reports whether the buffer was created by the device with the given
// UID.
func (b *Buffer) OwnedBy(ownerUID uint64) bool {
	return b.life.ownerUID == ownerUID
}

func (b *Buffer) Clone() *Buffer {
	b.life.acquire()
	return b
}

func (b *Buffer) Release() {
	b.life.release(KindBuffer)
}

// References reports the current ownership count. Diagnostic only.
func (b *Buffer) References() int {
	return b.life.references()
}
