package epochs

import (
	"github.com/arcana-engine/sierra-sub000/lifeutils"
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// CommandBufferStatus tracks where a command buffer is in its recording cycle.
type CommandBufferStatus uint32

const (
	// CommandBufferIdle - yet to begin recording. Set after creation and after
	// the command buffer's epoch retires.
	CommandBufferIdle CommandBufferStatus = iota
	// CommandBufferRecording - commands are being appended.
	CommandBufferRecording
	// CommandBufferExecutable - recording finished, ready to submit.
	CommandBufferExecutable
	// CommandBufferPending - attached to a live epoch; the hardware may be
	// executing it.
	CommandBufferPending
)

var commandBufferStatusMapping = make(map[CommandBufferStatus]string)

func (s CommandBufferStatus) String() string {
	return commandBufferStatusMapping[s]
}

func init() {
	commandBufferStatusMapping[CommandBufferIdle] = "CommandBufferIdle"
	commandBufferStatusMapping[CommandBufferRecording] = "CommandBufferRecording"
	commandBufferStatusMapping[CommandBufferExecutable] = "CommandBufferExecutable"
	commandBufferStatusMapping[CommandBufferPending] = "CommandBufferPending"
}

// CommandBuffer is a command buffer as seen by the reclamation engine: the
// native handle, the queue it records for, and the reference bundle that keeps
// its resources alive while it may execute. The recording layer fills the
// bundle; the tracker empties it when the epoch the buffer was submitted in
// retires.
type CommandBuffer struct {
	handle core1_0.CommandBuffer
	queue  QueueID
	status CommandBufferStatus
	refs   References
}

func NewCommandBuffer(handle core1_0.CommandBuffer, queue QueueID) *CommandBuffer {
	return &CommandBuffer{
		handle: handle,
		queue:  queue,
	}
}

func (c *CommandBuffer) Handle() core1_0.CommandBuffer {
	return c.handle
}

func (c *CommandBuffer) Queue() QueueID {
	return c.queue
}

func (c *CommandBuffer) Status() CommandBufferStatus {
	return c.status
}

// References exposes the reference bundle to the recording layer. Every
// command that names a resource must add it here.
func (c *CommandBuffer) References() *References {
	return &c.refs
}

// BeginRecording moves the command buffer from idle to recording. The native
// begin call belongs to the recording layer; this only tracks the contract
// that a command buffer is submitted at most once per recording cycle.
func (c *CommandBuffer) BeginRecording() error {
	if c.status != CommandBufferIdle {
		return errors.Newf("cannot begin recording a command buffer in status %s", c.status)
	}
	c.status = CommandBufferRecording
	return nil
}

// FinishRecording moves the command buffer from recording to executable.
func (c *CommandBuffer) FinishRecording() error {
	if c.status != CommandBufferRecording {
		return errors.Newf("cannot finish recording a command buffer in status %s", c.status)
	}
	c.status = CommandBufferExecutable
	return nil
}

// markPending is called by the tracker when the command buffer is attached to
// an epoch.
func (c *CommandBuffer) markPending() {
	lifeutils.DebugAssert(c.status == CommandBufferExecutable,
		"submitting a command buffer in status %s", c.status)
	c.status = CommandBufferPending
}

// retire clears the reference bundle and returns the command buffer to idle.
// Called by the tracker when the owning epoch retires.
func (c *CommandBuffer) retire() {
	c.refs.Clear()
	c.status = CommandBufferIdle
}
