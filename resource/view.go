package resource

import (
	"github.com/vkngwrapper/core/v2/core1_0"
)

// ImageViewInfo describes an image view. The Image field is a co-owning handle:
// a view keeps its image alive for as long as the view itself exists.
type ImageViewInfo struct {
	ViewType         core1_0.ImageViewType
	Format           core1_0.Format
	SubresourceRange core1_0.ImageSubresourceRange
	Image            *Image
}

// NewWholeImageViewInfo builds the default view info for an image: same
// format, every mip level and array layer, color aspect. The 3D view type is
// chosen for images with depth; everything else gets a 2D view.
func NewWholeImageViewInfo(image *Image) ImageViewInfo {
	info := image.Info()

	viewType := core1_0.ImageViewType2D
	if info.Extent.Depth > 1 {
		viewType = core1_0.ImageViewType3D
	}

	return ImageViewInfo{
		ViewType: viewType,
		Format:   info.Format,
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     core1_0.ImageAspectColor,
			BaseMipLevel:   0,
			LevelCount:     info.MipLevels,
			BaseArrayLayer: 0,
			LayerCount:     info.ArrayLayers,
		},
		Image: image,
	}
}

// Equal reports whether two view infos describe the same view of the same
// image. Image identity is by handle, not by info value: two images with equal
// infos are still distinct resources.
func (i *ImageViewInfo) Equal(other *ImageViewInfo) bool {
	return i.Image == other.Image &&
		i.ViewType == other.ViewType &&
		i.Format == other.Format &&
		i.SubresourceRange == other.SubresourceRange
}

// IsWholeImage reports whether this view covers the entirety of image with the
// image's own format.
func (i *ImageViewInfo) IsWholeImage(image *Image) bool {
	whole := NewWholeImageViewInfo(image)
	return i.Equal(&whole)
}

// ImageView is a shared-ownership handle for an image view. The view co-owns
// its image through ImageViewInfo.
type ImageView struct {
	handle core1_0.ImageView
	info   ImageViewInfo
	life   refLife
}

// NewImageView takes ownership of info.Image: the caller passes an ownership
// share (usually via Clone) and the view releases it when its own last owner
// goes away.
func NewImageView(handle core1_0.ImageView, info ImageViewInfo, owner Reclaimer, ownerUID uint64, index int) *ImageView {
	v := &ImageView{handle: handle, info: info}
	v.life.init(owner, ownerUID, index)
	return v
}

func (v *ImageView) Handle() core1_0.ImageView {
	return v.handle
}

func (v *ImageView) Info() *ImageViewInfo {
	return &v.info
}

func (v *ImageView) Index() int {
	return v.life.index
}

func (v *ImageView) OwnedBy(ownerUID uint64) bool {
	return v.life.ownerUID == ownerUID
}

func (v *ImageView) Clone() *ImageView {
	v.life.acquire()
	return v
}

func (v *ImageView) Release() {
	if v.life.release(KindImageView) && v.info.Image != nil {
		v.info.Image.Release()
		v.info.Image = nil
	}
}

// References reports the current ownership count. Diagnostic only.
func (v *ImageView) References() int {
	return v.life.references()
}
