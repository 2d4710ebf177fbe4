package device

import (
	"time"

	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/driver"
)

// NativeDevice is the slice of core1_0.Device this engine calls. Narrowed to
// an interface so tests can stand in a fake without a Vulkan loader;
// core1_0.Device satisfies it directly.
type NativeDevice interface {
	CreateBuffer(allocationCallbacks *driver.AllocationCallbacks, o core1_0.BufferCreateInfo) (core1_0.Buffer, common.VkResult, error)
	CreateImage(allocationCallbacks *driver.AllocationCallbacks, options core1_0.ImageCreateInfo) (core1_0.Image, common.VkResult, error)
	CreateImageView(allocationCallbacks *driver.AllocationCallbacks, o core1_0.ImageViewCreateInfo) (core1_0.ImageView, common.VkResult, error)
	CreateSampler(allocationCallbacks *driver.AllocationCallbacks, o core1_0.SamplerCreateInfo) (core1_0.Sampler, common.VkResult, error)
	CreateFramebuffer(allocationCallbacks *driver.AllocationCallbacks, o core1_0.FramebufferCreateInfo) (core1_0.Framebuffer, common.VkResult, error)
	WaitForFences(waitForAll bool, timeout time.Duration, fences []core1_0.Fence) (common.VkResult, error)
	WaitIdle() (common.VkResult, error)
}
