package device_test

import (
	"testing"
	"time"

	"github.com/arcana-engine/sierra-sub000/device"
	"github.com/arcana-engine/sierra-sub000/epochs"
	"github.com/arcana-engine/sierra-sub000/lifeutils"
	"github.com/arcana-engine/sierra-sub000/resource"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
)

var (
	graphicsQueue = epochs.QueueID{Family: 0, Index: 0}
	transferQueue = epochs.QueueID{Family: 1, Index: 0}
)

func newTestDevice(t *testing.T) (*device.Device, *device.FakeNativeDevice) {
	t.Helper()

	native := device.NewFakeNativeDevice()
	d, err := device.NewDevice(native, device.CreateOptions{
		Queues:   []epochs.QueueID{graphicsQueue, transferQueue},
		UseMutex: true,
	})
	require.NoError(t, err)
	return d, native
}

func TestNewDeviceValidation(t *testing.T) {
	_, err := device.NewDevice(nil, device.CreateOptions{
		Queues: []epochs.QueueID{graphicsQueue},
	})
	require.Error(t, err)

	_, err = device.NewDevice(device.NewFakeNativeDevice(), device.CreateOptions{})
	require.Error(t, err)
}

func TestReleaseDestroysNativeHandle(t *testing.T) {
	d, native := newTestDevice(t)

	buffer, err := d.CreateBuffer(resource.BufferInfo{Size: 128})
	require.NoError(t, err)
	require.True(t, buffer.OwnedBy(d.UID()))

	require.False(t, native.Buffers[0].Destroyed)
	buffer.Release()
	require.True(t, native.Buffers[0].Destroyed)
}

func TestReclaimCallbacksFireBeforeDestroy(t *testing.T) {
	native := device.NewFakeNativeDevice()

	var reclaimed []core1_0.Buffer
	d, err := device.NewDevice(native, device.CreateOptions{
		Queues: []epochs.QueueID{graphicsQueue},
		ReclaimCallbacks: device.ReclaimCallbackOptions{
			OnBufferReclaimed: func(buffer core1_0.Buffer) {
				reclaimed = append(reclaimed, buffer)
				require.False(t, buffer.(*device.FakeBuffer).Destroyed)
			},
		},
	})
	require.NoError(t, err)

	buffer, err := d.CreateBuffer(resource.BufferInfo{Size: 64})
	require.NoError(t, err)
	buffer.Release()

	require.Len(t, reclaimed, 1)
	require.True(t, native.Buffers[0].Destroyed)
}

func TestCreateMapsOutOfMemoryResults(t *testing.T) {
	d, native := newTestDevice(t)
	native.CreateBufferResult = core1_0.VKErrorOutOfDeviceMemory
	native.CreateBufferErr = core1_0.VKErrorOutOfDeviceMemory.ToError()

	_, err := d.CreateBuffer(resource.BufferInfo{Size: 1 << 30})
	require.ErrorIs(t, err, lifeutils.ErrOutOfMemory)
}

func TestDeferredDestructionThroughFenceWait(t *testing.T) {
	d, native := newTestDevice(t)
	tracker := d.Tracker()

	buffer, err := d.CreateBuffer(resource.BufferInfo{Size: 256})
	require.NoError(t, err)

	epoch := tracker.NextEpoch(graphicsQueue)

	cbuf := epochs.NewCommandBuffer(nil, graphicsQueue)
	require.NoError(t, cbuf.BeginRecording())
	cbuf.References().AddBuffer(buffer)
	require.NoError(t, cbuf.FinishRecording())
	tracker.Submit(graphicsQueue, cbuf)

	// The application is done with the buffer, but the hardware is not.
	buffer.Release()
	require.False(t, native.Buffers[0].Destroyed)

	tracker.NextEpoch(graphicsQueue)

	require.NoError(t, d.WaitForFence(&device.FakeFence{}, graphicsQueue, epoch, time.Second))
	require.Equal(t, 1, native.FenceWaits)
	require.True(t, native.Buffers[0].Destroyed)
	require.True(t, cbuf.References().IsEmpty())
}

func TestWaitForFenceTimeout(t *testing.T) {
	d, native := newTestDevice(t)
	native.FenceWaitResult = core1_0.VKTimeout

	epoch := d.Tracker().NextEpoch(graphicsQueue)

	err := d.WaitForFence(&device.FakeFence{}, graphicsQueue, epoch, time.Millisecond)
	require.Error(t, err)

	// The epoch stays open after a timeout.
	stats, ok := d.Tracker().QueueStatistics(graphicsQueue)
	require.True(t, ok)
	require.Equal(t, 2, stats.LiveEpochs)
}

func TestWaitForFenceError(t *testing.T) {
	d, native := newTestDevice(t)
	native.FenceWaitErr = errors.New("device lost")

	epoch := d.Tracker().NextEpoch(graphicsQueue)
	err := d.WaitForFence(&device.FakeFence{}, graphicsQueue, epoch, time.Second)
	require.ErrorContains(t, err, "device lost")
}

func TestWaitIdleReclaimsEverything(t *testing.T) {
	d, native := newTestDevice(t)
	tracker := d.Tracker()

	buffer, err := d.CreateBuffer(resource.BufferInfo{Size: 64})
	require.NoError(t, err)

	tracker.NextEpoch(transferQueue)
	cbuf := epochs.NewCommandBuffer(nil, transferQueue)
	require.NoError(t, cbuf.BeginRecording())
	cbuf.References().AddBuffer(buffer)
	require.NoError(t, cbuf.FinishRecording())
	tracker.Submit(transferQueue, cbuf)
	buffer.Release()

	require.NoError(t, d.WaitIdle())
	require.Equal(t, 1, native.IdleWaits)
	require.True(t, native.Buffers[0].Destroyed)

	// Every queue is left with exactly one live, fresh epoch.
	for _, id := range []epochs.QueueID{graphicsQueue, transferQueue} {
		stats, ok := tracker.QueueStatistics(id)
		require.True(t, ok)
		require.Equal(t, 1, stats.LiveEpochs)
		require.Equal(t, 0, stats.PendingCommandBuffers)
	}
}

func TestWaitIdleErrorKeepsEpochsOpen(t *testing.T) {
	d, native := newTestDevice(t)
	native.IdleWaitErr = errors.New("device lost")

	require.Error(t, d.WaitIdle())

	stats, _ := d.Tracker().QueueStatistics(graphicsQueue)
	require.Equal(t, 2, stats.LiveEpochs)
}

func TestCreateImageViewChecksOwnership(t *testing.T) {
	d, _ := newTestDevice(t)
	other, _ := newTestDevice(t)

	image, err := other.CreateImage(resource.ImageInfo{MipLevels: 1, ArrayLayers: 1})
	require.NoError(t, err)

	_, err = d.CreateImageView(resource.NewWholeImageViewInfo(image))
	require.ErrorContains(t, err, "different device")
}

func TestImageViewKeepsImageAlive(t *testing.T) {
	d, native := newTestDevice(t)

	image, err := d.CreateImage(resource.ImageInfo{MipLevels: 1, ArrayLayers: 1})
	require.NoError(t, err)

	view, err := d.CreateImageView(resource.NewWholeImageViewInfo(image))
	require.NoError(t, err)

	image.Release()
	require.False(t, native.Images[0].Destroyed)

	view.Release()
	require.True(t, native.ImageViews[0].Destroyed)
	require.True(t, native.Images[0].Destroyed)
}

func TestFramebufferKeepsAttachmentsAlive(t *testing.T) {
	d, native := newTestDevice(t)

	image, err := d.CreateImage(resource.ImageInfo{MipLevels: 1, ArrayLayers: 1})
	require.NoError(t, err)
	view, err := d.CreateImageView(resource.NewWholeImageViewInfo(image))
	require.NoError(t, err)
	image.Release()

	framebuffer, err := d.CreateFramebuffer(nil, []*resource.ImageView{view},
		resource.FramebufferInfo{Width: 640, Height: 480, Layers: 1})
	require.NoError(t, err)

	view.Release()
	require.False(t, native.ImageViews[0].Destroyed)

	framebuffer.Release()
	require.True(t, native.Framebuffers[0].Destroyed)
	require.True(t, native.ImageViews[0].Destroyed)
	require.True(t, native.Images[0].Destroyed)
}

func TestAdoptedPipelineIsDeferred(t *testing.T) {
	d, _ := newTestDevice(t)
	tracker := d.Tracker()

	pipeline := d.AdoptGraphicsPipeline(nil)

	epoch := tracker.NextEpoch(graphicsQueue)
	cbuf := epochs.NewCommandBuffer(nil, graphicsQueue)
	require.NoError(t, cbuf.BeginRecording())
	cbuf.References().AddGraphicsPipeline(pipeline)
	require.NoError(t, cbuf.FinishRecording())
	tracker.Submit(graphicsQueue, cbuf)

	pipeline.Release()
	require.Equal(t, 1, pipeline.References())

	tracker.NextEpoch(graphicsQueue)
	tracker.CloseEpoch(graphicsQueue, epoch)
	require.Equal(t, 0, pipeline.References())
}

func TestDescriptorSetReturnsToAllocator(t *testing.T) {
	native := device.NewFakeNativeDevice()

	var freed []core1_0.DescriptorSet
	d, err := device.NewDevice(native, device.CreateOptions{
		Queues: []epochs.QueueID{graphicsQueue},
		ReclaimCallbacks: device.ReclaimCallbackOptions{
			FreeDescriptorSet: func(set core1_0.DescriptorSet) {
				freed = append(freed, set)
			},
		},
	})
	require.NoError(t, err)

	set := d.AdoptDescriptorSet(fakeDescriptorSet{})
	set.Release()
	require.Len(t, freed, 1)
}

func TestShutdownAfterCleanTeardown(t *testing.T) {
	d, _ := newTestDevice(t)

	buffer, err := d.CreateBuffer(resource.BufferInfo{Size: 32})
	require.NoError(t, err)
	buffer.Release()

	require.NoError(t, d.Shutdown())
}

type fakeDescriptorSet struct {
	core1_0.DescriptorSet
}
