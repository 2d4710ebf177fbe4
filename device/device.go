package device

import (
	"sync/atomic"
	"time"

	"github.com/arcana-engine/sierra-sub000/arena"
	"github.com/arcana-engine/sierra-sub000/epochs"
	"github.com/arcana-engine/sierra-sub000/internal/utils"
	"github.com/arcana-engine/sierra-sub000/lifeutils"
	"github.com/arcana-engine/sierra-sub000/resource"
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/driver"
	"github.com/vkngwrapper/extensions/v2/khr_acceleration_structure"
	"golang.org/x/exp/slog"
)

// Arena capacity hints per resource kind. Hints only, never hard limits.
const (
	bufferArenaCapacity         = 4096
	imageArenaCapacity          = 4096
	imageViewArenaCapacity      = 4096
	pipelineArenaCapacity       = 128
	pipelineLayoutArenaCapacity = 64
	framebufferArenaCapacity    = 128
	accelArenaCapacity          = 1024
	samplerArenaCapacity        = 128
	descriptorSetArenaCapacity  = 1024
)

var nextDeviceUID atomic.Uint64

// ReclaimCallbackOptions lets the external GPU memory allocator and
// descriptor-pool allocator learn when a deferred destroy actually happens.
// Each callback runs before the native handle is destroyed, while the handle
// is still valid for lookups. All callbacks are optional.
type ReclaimCallbackOptions struct {
	// OnBufferReclaimed fires for a buffer whose last owner released it, so
	// the memory allocator can free the backing block.
	OnBufferReclaimed func(buffer core1_0.Buffer)
	// OnImageReclaimed fires for an image whose last owner released it.
	OnImageReclaimed func(image core1_0.Image)
	// FreeDescriptorSet returns a descriptor set to the external descriptor
	// allocator. Descriptor sets have no native destroy of their own; without
	// this callback a reclaimed set is simply dropped from the arena.
	FreeDescriptorSet func(set core1_0.DescriptorSet)
}

// CreateOptions configures a Device.
type CreateOptions struct {
	// Queues lists every hardware queue the device will submit to. Required.
	Queues []epochs.QueueID
	// Logger receives pool soft-limit warnings and teardown leak reports.
	// Defaults to slog.Default.
	Logger *slog.Logger
	// UseMutex enables internal locking. Turn it off only when the device is
	// confined to a single goroutine.
	UseMutex bool
	// AllocationCallbacks is forwarded to every native create and destroy.
	AllocationCallbacks *driver.AllocationCallbacks
	// ReclaimCallbacks hooks the external allocators into deferred destroys.
	ReclaimCallbacks ReclaimCallbackOptions
}

// guardedTable pairs one resource kind's arena with its lock. Locks are held
// only for the single insert/remove/visit, never across a native call.
type guardedTable[T any] struct {
	mutex utils.OptionalMutex
	table *arena.Table[T]
}

func newGuardedTable[T any](capacity int, useMutex bool) guardedTable[T] {
	return guardedTable[T]{
		mutex: utils.OptionalMutex{UseMutex: useMutex},
		table: arena.NewTable[T](capacity),
	}
}

func (g *guardedTable[T]) insert(value T) int {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.table.Insert(value)
}

func (g *guardedTable[T]) remove(index int) T {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.table.Remove(index)
}

func (g *guardedTable[T]) len() int {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.table.Len()
}

// Device orchestrates the reclamation engine: one arena per resource kind,
// one epoch tracker, and the translation from native waits to epoch closes.
// A Device is safe for concurrent use from many goroutines when UseMutex is
// set; submissions to any single queue must still be serialized by the caller.
type Device struct {
	logger              *slog.Logger
	device              NativeDevice
	allocationCallbacks *driver.AllocationCallbacks
	reclaimCallbacks    ReclaimCallbackOptions
	uid                 uint64

	tracker *epochs.Tracker

	buffers             guardedTable[core1_0.Buffer]
	images              guardedTable[core1_0.Image]
	imageViews          guardedTable[core1_0.ImageView]
	graphicsPipelines   guardedTable[core1_0.Pipeline]
	computePipelines    guardedTable[core1_0.Pipeline]
	rayTracingPipelines guardedTable[core1_0.Pipeline]
	pipelineLayouts     guardedTable[core1_0.PipelineLayout]
	framebuffers        guardedTable[core1_0.Framebuffer]
	accels              guardedTable[khr_acceleration_structure.AccelerationStructure]
	samplers            guardedTable[core1_0.Sampler]
	descriptorSets      guardedTable[core1_0.DescriptorSet]
}

// NewDevice builds a Device over the native device and its queues.
func NewDevice(native NativeDevice, o CreateOptions) (*Device, error) {
	if native == nil {
		return nil, errors.New("device.CreateOptions requires a native device")
	}
	if len(o.Queues) == 0 {
		return nil, errors.New("device.CreateOptions requires at least one queue")
	}

	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	d := &Device{
		logger:              logger,
		device:              native,
		allocationCallbacks: o.AllocationCallbacks,
		reclaimCallbacks:    o.ReclaimCallbacks,
		uid:                 nextDeviceUID.Add(1),

		tracker: epochs.NewTracker(o.Queues, logger),

		buffers:             newGuardedTable[core1_0.Buffer](bufferArenaCapacity, o.UseMutex),
		images:              newGuardedTable[core1_0.Image](imageArenaCapacity, o.UseMutex),
		imageViews:          newGuardedTable[core1_0.ImageView](imageViewArenaCapacity, o.UseMutex),
		graphicsPipelines:   newGuardedTable[core1_0.Pipeline](pipelineArenaCapacity, o.UseMutex),
		computePipelines:    newGuardedTable[core1_0.Pipeline](pipelineArenaCapacity, o.UseMutex),
		rayTracingPipelines: newGuardedTable[core1_0.Pipeline](pipelineArenaCapacity, o.UseMutex),
		pipelineLayouts:     newGuardedTable[core1_0.PipelineLayout](pipelineLayoutArenaCapacity, o.UseMutex),
		framebuffers:        newGuardedTable[core1_0.Framebuffer](framebufferArenaCapacity, o.UseMutex),
		accels:              newGuardedTable[khr_acceleration_structure.AccelerationStructure](accelArenaCapacity, o.UseMutex),
		samplers:            newGuardedTable[core1_0.Sampler](samplerArenaCapacity, o.UseMutex),
		descriptorSets:      newGuardedTable[core1_0.DescriptorSet](descriptorSetArenaCapacity, o.UseMutex),
	}
	return d, nil
}

// UID identifies this device for resource ownership checks.
func (d *Device) UID() uint64 {
	return d.uid
}

// Tracker exposes the epoch tracker to the submission layer.
func (d *Device) Tracker() *epochs.Tracker {
	return d.tracker
}

// nativeCreateError maps memory-exhaustion results from a native create to
// lifeutils.ErrOutOfMemory so callers can test for it with errors.Is.
func nativeCreateError(res common.VkResult, err error) error {
	switch res {
	case core1_0.VKErrorOutOfDeviceMemory, core1_0.VKErrorOutOfHostMemory:
		return errors.Wrapf(lifeutils.ErrOutOfMemory, "%s", res)
	}
	return err
}

// CreateBuffer creates a buffer and registers it for deferred destruction.
// Memory binding belongs to the external allocator.
func (d *Device) CreateBuffer(info resource.BufferInfo) (*resource.Buffer, error) {
	handle, res, err := d.device.CreateBuffer(d.allocationCallbacks, core1_0.BufferCreateInfo{
		Size:        info.Size,
		Usage:       info.Usage,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return nil, nativeCreateError(res, err)
	}

	index := d.buffers.insert(handle)
	return resource.NewBuffer(handle, info, d, d.uid, index), nil
}

// CreateImage creates an image and registers it for deferred destruction.
func (d *Device) CreateImage(info resource.ImageInfo) (*resource.Image, error) {
	imageType := core1_0.ImageType2D
	if info.Extent.Depth > 1 {
		imageType = core1_0.ImageType3D
	}

	handle, res, err := d.device.CreateImage(d.allocationCallbacks, core1_0.ImageCreateInfo{
		ImageType:     imageType,
		Format:        info.Format,
		Extent:        info.Extent,
		MipLevels:     info.MipLevels,
		ArrayLayers:   info.ArrayLayers,
		Samples:       info.Samples,
		Tiling:        core1_0.ImageTilingOptimal,
		Usage:         info.Usage,
		SharingMode:   core1_0.SharingModeExclusive,
		InitialLayout: core1_0.ImageLayoutUndefined,
	})
	if err != nil {
		return nil, nativeCreateError(res, err)
	}

	index := d.images.insert(handle)
	return resource.NewImage(handle, info, d, d.uid, index), nil
}

// CreateImageView creates a view of info.Image. The view takes its own
// ownership share of the image, so the image outlives the view no matter when
// the caller drops it.
func (d *Device) CreateImageView(info resource.ImageViewInfo) (*resource.ImageView, error) {
	if info.Image == nil {
		return nil, errors.New("image view info requires an image")
	}
	if !info.Image.OwnedBy(d.uid) {
		return nil, errors.Newf("image at arena index %d belongs to a different device", info.Image.Index())
	}

	handle, res, err := d.device.CreateImageView(d.allocationCallbacks, core1_0.ImageViewCreateInfo{
		Image:            info.Image.Handle(),
		ViewType:         info.ViewType,
		Format:           info.Format,
		SubresourceRange: info.SubresourceRange,
	})
	if err != nil {
		return nil, nativeCreateError(res, err)
	}

	info.Image = info.Image.Clone()
	index := d.imageViews.insert(handle)
	return resource.NewImageView(handle, info, d, d.uid, index), nil
}

// CreateSampler creates a sampler and registers it for deferred destruction.
func (d *Device) CreateSampler(info resource.SamplerInfo) (*resource.Sampler, error) {
	handle, res, err := d.device.CreateSampler(d.allocationCallbacks, core1_0.SamplerCreateInfo{
		MagFilter:        info.MagFilter,
		MinFilter:        info.MinFilter,
		MipmapMode:       info.MipmapMode,
		AddressModeU:     info.AddressModeU,
		AddressModeV:     info.AddressModeV,
		AddressModeW:     info.AddressModeW,
		MaxAnisotropy:    info.MaxAnisotropy,
		AnisotropyEnable: info.MaxAnisotropy > 0,
	})
	if err != nil {
		return nil, nativeCreateError(res, err)
	}

	index := d.samplers.insert(handle)
	return resource.NewSampler(handle, info, d, d.uid, index), nil
}

// CreateFramebuffer creates a framebuffer over the given render pass and
// attachments. The framebuffer takes its own ownership share of every
// attachment. Render pass construction is outside this engine; the handle is
// taken as-is and not lifetime-tracked here.
func (d *Device) CreateFramebuffer(renderPass core1_0.RenderPass, attachments []*resource.ImageView, info resource.FramebufferInfo) (*resource.Framebuffer, error) {
	nativeAttachments := make([]core1_0.ImageView, 0, len(attachments))
	for _, view := range attachments {
		if !view.OwnedBy(d.uid) {
			return nil, errors.Newf("attachment view at arena index %d belongs to a different device", view.Index())
		}
		nativeAttachments = append(nativeAttachments, view.Handle())
	}

	handle, res, err := d.device.CreateFramebuffer(d.allocationCallbacks, core1_0.FramebufferCreateInfo{
		RenderPass:  renderPass,
		Attachments: nativeAttachments,
		Width:       info.Width,
		Height:      info.Height,
		Layers:      info.Layers,
	})
	if err != nil {
		return nil, nativeCreateError(res, err)
	}

	shares := make([]*resource.ImageView, 0, len(attachments))
	for _, view := range attachments {
		shares = append(shares, view.Clone())
	}

	index := d.framebuffers.insert(handle)
	return resource.NewFramebuffer(handle, info, shares, d, d.uid, index), nil
}

// Pipelines, pipeline layouts, descriptor sets, and acceleration structures
// are built by layers outside this engine. Adopt* registers an already-built
// handle for shared ownership and deferred destruction.

func (d *Device) AdoptGraphicsPipeline(handle core1_0.Pipeline) *resource.GraphicsPipeline {
	return resource.NewGraphicsPipeline(handle, d, d.uid, d.graphicsPipelines.insert(handle))
}

func (d *Device) AdoptComputePipeline(handle core1_0.Pipeline) *resource.ComputePipeline {
	return resource.NewComputePipeline(handle, d, d.uid, d.computePipelines.insert(handle))
}

func (d *Device) AdoptRayTracingPipeline(handle core1_0.Pipeline) *resource.RayTracingPipeline {
	return resource.NewRayTracingPipeline(handle, d, d.uid, d.rayTracingPipelines.insert(handle))
}

func (d *Device) AdoptPipelineLayout(handle core1_0.PipelineLayout) *resource.PipelineLayout {
	return resource.NewPipelineLayout(handle, d, d.uid, d.pipelineLayouts.insert(handle))
}

func (d *Device) AdoptAccelerationStructure(handle khr_acceleration_structure.AccelerationStructure) *resource.AccelerationStructure {
	return resource.NewAccelerationStructure(handle, d, d.uid, d.accels.insert(handle))
}

func (d *Device) AdoptDescriptorSet(handle core1_0.DescriptorSet) *resource.DescriptorSet {
	return resource.NewDescriptorSet(handle, d, d.uid, d.descriptorSets.insert(handle))
}

// Reclaim implements resource.Reclaimer. It runs when the last owner of a
// resource releases it: for in-flight resources that happens inside
// CloseEpoch, when the retiring command buffer's bundle drops its share.
func (d *Device) Reclaim(kind resource.Kind, index int) {
	switch kind {
	case resource.KindBuffer:
		handle := d.buffers.remove(index)
		if handle != nil {
			if d.reclaimCallbacks.OnBufferReclaimed != nil {
				d.reclaimCallbacks.OnBufferReclaimed(handle)
			}
			handle.Destroy(d.allocationCallbacks)
		}
	case resource.KindImage:
		handle := d.images.remove(index)
		if handle != nil {
			if d.reclaimCallbacks.OnImageReclaimed != nil {
				d.reclaimCallbacks.OnImageReclaimed(handle)
			}
			handle.Destroy(d.allocationCallbacks)
		}
	case resource.KindImageView:
		if handle := d.imageViews.remove(index); handle != nil {
			handle.Destroy(d.allocationCallbacks)
		}
	case resource.KindGraphicsPipeline:
		if handle := d.graphicsPipelines.remove(index); handle != nil {
			handle.Destroy(d.allocationCallbacks)
		}
	case resource.KindComputePipeline:
		if handle := d.computePipelines.remove(index); handle != nil {
			handle.Destroy(d.allocationCallbacks)
		}
	case resource.KindRayTracingPipeline:
		if handle := d.rayTracingPipelines.remove(index); handle != nil {
			handle.Destroy(d.allocationCallbacks)
		}
	case resource.KindPipelineLayout:
		if handle := d.pipelineLayouts.remove(index); handle != nil {
			handle.Destroy(d.allocationCallbacks)
		}
	case resource.KindFramebuffer:
		if handle := d.framebuffers.remove(index); handle != nil {
			handle.Destroy(d.allocationCallbacks)
		}
	case resource.KindAccelerationStructure:
		if handle := d.accels.remove(index); handle != nil {
			handle.Destroy(d.allocationCallbacks)
		}
	case resource.KindSampler:
		if handle := d.samplers.remove(index); handle != nil {
			handle.Destroy(d.allocationCallbacks)
		}
	case resource.KindDescriptorSet:
		// Descriptor sets return to the external descriptor allocator; there
		// is no native destroy on the set itself.
		handle := d.descriptorSets.remove(index)
		if handle != nil && d.reclaimCallbacks.FreeDescriptorSet != nil {
			d.reclaimCallbacks.FreeDescriptorSet(handle)
		}
	default:
		d.logger.Error("reclaim of unknown resource kind",
			slog.Uint64("kind", uint64(kind)),
			slog.Int("arenaIndex", index))
	}
}

// WaitForFence blocks until fence signals, then closes the generation the
// fence was submitted with. The tracker lock is never held across the native
// wait.
func (d *Device) WaitForFence(fence core1_0.Fence, queue epochs.QueueID, epoch uint64, timeout time.Duration) error {
	res, err := d.device.WaitForFences(true, timeout, []core1_0.Fence{fence})
	if err != nil {
		return errors.Wrapf(err, "waiting for fence on %s epoch %d", queue, epoch)
	}
	if res == core1_0.VKTimeout {
		return errors.Newf("timed out waiting for fence on %s epoch %d", queue, epoch)
	}

	d.tracker.CloseEpoch(queue, epoch)
	return nil
}

// WaitIdle opens a fresh generation on every queue, waits for the whole device
// to go idle, then closes everything up to the opened generations. After it
// returns, every resource referenced only by previously submitted work has
// been reclaimed.
func (d *Device) WaitIdle() error {
	opened := d.tracker.NextEpochAllQueues()

	if _, err := d.device.WaitIdle(); err != nil {
		// The opened epochs stay live; a later successful wait closes them.
		return errors.Wrap(err, "device idle wait failed")
	}

	for _, pair := range opened {
		d.tracker.CloseEpoch(pair.Queue, pair.Epoch)
	}
	return nil
}

// Shutdown drains the device and releases the tracker. Outstanding arena
// entries mean the application still holds resource handles; they are
// reported, not destroyed, since destroying under a live handle is worse than
// leaking at teardown.
func (d *Device) Shutdown() error {
	err := d.WaitIdle()
	if err != nil {
		return err
	}

	if trackerErr := d.tracker.Shutdown(); trackerErr != nil {
		d.logger.Warn("epoch tracker was not fully drained at device shutdown",
			slog.String("error", trackerErr.Error()))
		err = trackerErr
	}

	d.reportLeaks()
	return err
}

func (d *Device) reportLeaks() {
	report := func(kind resource.Kind, count int) {
		if count > 0 {
			d.logger.Warn("resources still alive at device shutdown",
				slog.String("kind", kind.String()),
				slog.Int("count", count))
		}
	}

	report(resource.KindBuffer, d.buffers.len())
	report(resource.KindImage, d.images.len())
	report(resource.KindImageView, d.imageViews.len())
	report(resource.KindGraphicsPipeline, d.graphicsPipelines.len())
	report(resource.KindComputePipeline, d.computePipelines.len())
	report(resource.KindRayTracingPipeline, d.rayTracingPipelines.len())
	report(resource.KindPipelineLayout, d.pipelineLayouts.len())
	report(resource.KindFramebuffer, d.framebuffers.len())
	report(resource.KindAccelerationStructure, d.accels.len())
	report(resource.KindSampler, d.samplers.len())
	report(resource.KindDescriptorSet, d.descriptorSets.len())
}
