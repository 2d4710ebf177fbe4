package resource

import (
	"github.com/vkngwrapper/core/v2/core1_0"
)

// ImageInfo describes an image at creation time.
type ImageInfo struct {
	Extent      core1_0.Extent3D
	Format      core1_0.Format
	MipLevels   int
	ArrayLayers int
	Samples     core1_0.SampleCountFlags
	Usage       core1_0.ImageUsageFlags
}

// Image is a shared-ownership handle for a GPU image object.
type Image struct {
	handle core1_0.Image
	info   ImageInfo
	life   refLife
}

func NewImage(handle core1_0.Image, info ImageInfo, owner Reclaimer, ownerUID uint64, index int) *Image {
	i := &Image{handle: handle, info: info}
	i.life.init(owner, ownerUID, index)
	return i
}

func (i *Image) Handle() core1_0.Image {
	return i.handle
}

func (i *Image) Info() ImageInfo {
	return i.info
}

func (i *Image) Index() int {
	return i.life.index
}

func (i *Image) OwnedBy(ownerUID uint64) bool {
	return i.life.ownerUID == ownerUID
}

func (i *Image) Clone() *Image {
	i.life.acquire()
	return i
}

func (i *Image) Release() {
	i.life.release(KindImage)
}

// References reports the current ownership count. Diagnostic only.
func (i *Image) References() int {
	return i.life.references()
}
