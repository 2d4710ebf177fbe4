package device

import (
	"time"

	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/driver"
)

// Fake native handles for tests. Each embeds its interface so only the
// methods this engine calls need real implementations.

type FakeBuffer struct {
	core1_0.Buffer
	Destroyed bool
}

func (b *FakeBuffer) Destroy(callbacks *driver.AllocationCallbacks) {
	b.Destroyed = true
}

type FakeImage struct {
	core1_0.Image
	Destroyed bool
}

func (i *FakeImage) Destroy(callbacks *driver.AllocationCallbacks) {
	i.Destroyed = true
}

type FakeImageView struct {
	core1_0.ImageView
	Destroyed bool
}

func (v *FakeImageView) Destroy(callbacks *driver.AllocationCallbacks) {
	v.Destroyed = true
}

type FakeSampler struct {
	core1_0.Sampler
	Destroyed bool
}

func (s *FakeSampler) Destroy(callbacks *driver.AllocationCallbacks) {
	s.Destroyed = true
}

type FakeFramebuffer struct {
	core1_0.Framebuffer
	Destroyed bool
}

func (f *FakeFramebuffer) Destroy(callbacks *driver.AllocationCallbacks) {
	f.Destroyed = true
}

type FakeFence struct {
	core1_0.Fence
}

// FakeNativeDevice implements NativeDevice without a Vulkan loader. Waits
// succeed immediately unless configured otherwise.
type FakeNativeDevice struct {
	Buffers      []*FakeBuffer
	Images       []*FakeImage
	ImageViews   []*FakeImageView
	Samplers     []*FakeSampler
	Framebuffers []*FakeFramebuffer

	FenceWaits         int
	FenceWaitResult    common.VkResult
	FenceWaitErr       error
	IdleWaits          int
	IdleWaitErr        error
	CreateBufferResult common.VkResult
	CreateBufferErr    error
	CreateImageViewErr error
}

func NewFakeNativeDevice() *FakeNativeDevice {
	return &FakeNativeDevice{
		FenceWaitResult:    core1_0.VKSuccess,
		CreateBufferResult: core1_0.VKSuccess,
	}
}

func (d *FakeNativeDevice) CreateBuffer(allocationCallbacks *driver.AllocationCallbacks, o core1_0.BufferCreateInfo) (core1_0.Buffer, common.VkResult, error) {
	if d.CreateBufferErr != nil {
		return nil, d.CreateBufferResult, d.CreateBufferErr
	}

	buffer := &FakeBuffer{}
	d.Buffers = append(d.Buffers, buffer)
	return buffer, core1_0.VKSuccess, nil
}

func (d *FakeNativeDevice) CreateImage(allocationCallbacks *driver.AllocationCallbacks, options core1_0.ImageCreateInfo) (core1_0.Image, common.VkResult, error) {
	image := &FakeImage{}
	d.Images = append(d.Images, image)
	return image, core1_0.VKSuccess, nil
}

func (d *FakeNativeDevice) CreateImageView(allocationCallbacks *driver.AllocationCallbacks, o core1_0.ImageViewCreateInfo) (core1_0.ImageView, common.VkResult, error) {
	if d.CreateImageViewErr != nil {
		return nil, core1_0.VKErrorUnknown, d.CreateImageViewErr
	}

	view := &FakeImageView{}
	d.ImageViews = append(d.ImageViews, view)
	return view, core1_0.VKSuccess, nil
}

func (d *FakeNativeDevice) CreateSampler(allocationCallbacks *driver.AllocationCallbacks, o core1_0.SamplerCreateInfo) (core1_0.Sampler, common.VkResult, error) {
	sampler := &FakeSampler{}
	d.Samplers = append(d.Samplers, sampler)
	return sampler, core1_0.VKSuccess, nil
}

func (d *FakeNativeDevice) CreateFramebuffer(allocationCallbacks *driver.AllocationCallbacks, o core1_0.FramebufferCreateInfo) (core1_0.Framebuffer, common.VkResult, error) {
	framebuffer := &FakeFramebuffer{}
	d.Framebuffers = append(d.Framebuffers, framebuffer)
	return framebuffer, core1_0.VKSuccess, nil
}

func (d *FakeNativeDevice) WaitForFences(waitForAll bool, timeout time.Duration, fences []core1_0.Fence) (common.VkResult, error) {
	d.FenceWaits++
	if d.FenceWaitErr != nil {
		return core1_0.VKErrorUnknown, d.FenceWaitErr
	}
	return d.FenceWaitResult, nil
}

func (d *FakeNativeDevice) WaitIdle() (common.VkResult, error) {
	d.IdleWaits++
	if d.IdleWaitErr != nil {
		return core1_0.VKErrorUnknown, d.IdleWaitErr
	}
	return core1_0.VKSuccess, nil
}
