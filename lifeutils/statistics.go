package lifeutils

// QueueStatistics describes the tracker state of a single hardware queue at the
// moment it was sampled.
type QueueStatistics struct {
	// CurrentEpoch is the generation counter of the queue. It counts every epoch
	// ever opened, including ones that have already retired.
	CurrentEpoch uint64
	// LiveEpochs is the number of epochs that have been opened and not yet closed.
	// A queue always has at least one live epoch.
	LiveEpochs int
	// PendingCommandBuffers is the number of command buffers attached to live epochs.
	PendingCommandBuffers int
	// PooledEpochs is the number of retired epoch containers held for reuse.
	PooledEpochs int
	// PooledCommandBuffers is the number of retired command buffers held for reuse.
	PooledCommandBuffers int
}

func (s *QueueStatistics) Clear() {
	s.CurrentEpoch = 0
	s.LiveEpochs = 0
	s.PendingCommandBuffers = 0
	s.PooledEpochs = 0
	s.PooledCommandBuffers = 0
}

// TrackerStatistics aggregates QueueStatistics across every queue registered
// with a tracker.
type TrackerStatistics struct {
	QueueCount            int
	LiveEpochs            int
	PendingCommandBuffers int
	PooledEpochs          int
	PooledCommandBuffers  int
}

func (s *TrackerStatistics) Clear() {
	s.QueueCount = 0
	s.LiveEpochs = 0
	s.PendingCommandBuffers = 0
	s.PooledEpochs = 0
	s.PooledCommandBuffers = 0
}

func (s *TrackerStatistics) AddQueue(queue *QueueStatistics) {
	s.QueueCount++
	s.LiveEpochs += queue.LiveEpochs
	s.PendingCommandBuffers += queue.PendingCommandBuffers
	s.PooledEpochs += queue.PooledEpochs
	s.PooledCommandBuffers += queue.PooledCommandBuffers
}
