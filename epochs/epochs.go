package epochs

import (
	"math"
	"sync"

	"github.com/arcana-engine/sierra-sub000/lifeutils"
	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

// Soft limits carried from the original engine. Crossing one is a diagnostic
// signal of a leaking or backpressured submission pattern, never a hard error.
const (
	// liveEpochSoftLimit is the number of simultaneously open epochs on one
	// queue past which the tracker starts warning. Open epochs that are never
	// closed pin their resources forever.
	liveEpochSoftLimit = 32
	// epochPoolSoftLimit caps the retired-epoch container pool. Containers
	// past the cap are dropped rather than pooled.
	epochPoolSoftLimit = 64
	// commandBufferPoolSoftLimit caps the retired command buffer pool.
	commandBufferPoolSoftLimit = 1024
)

// epoch is one generation of submitted work on one queue: the set of command
// buffers submitted while it was the queue's open generation.
type epoch struct {
	cbufs []*CommandBuffer
}

// queueEpochs is the per-queue tracker state. All fields are guarded by mutex.
type queueEpochs struct {
	mutex sync.Mutex

	// current counts every epoch ever opened on this queue.
	current uint64
	// live holds open epochs, oldest first. Never empty: a fresh epoch is
	// pushed the moment closing consumes older ones.
	live []*epoch
	// epochPool holds retired, emptied epoch containers for reuse.
	epochPool []*epoch
	// cbufPool holds retired command buffers with cleared bundles, ready to be
	// drained out for new recording.
	cbufPool []*CommandBuffer

	warnedEpochPool bool
	warnedCbufPool  bool
}

// QueueEpoch pairs a queue with a generation opened on it.
type QueueEpoch struct {
	Queue QueueID
	Epoch uint64
}

// Tracker assigns generation numbers to batches of submitted work and recycles
// everything attached to a generation once the caller reports it retired. One
// tracker exists per device; its queue table is fixed at construction.
//
// All methods are safe for concurrent use. Each queue's state has its own
// lock, held only for the duration of one operation and never across a native
// call.
type Tracker struct {
	logger *slog.Logger
	queues *swiss.Map[QueueID, *queueEpochs]
	// ids holds every registered queue sorted by (family, index) so that
	// all-queue operations are deterministic.
	ids []QueueID
}

// NewTracker builds a tracker for the given queues. Duplicate IDs are a
// programming error. A nil logger falls back to slog.Default.
func NewTracker(queues []QueueID, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}

	t := &Tracker{
		logger: logger,
		queues: swiss.NewMap[QueueID, *queueEpochs](uint32(len(queues)) + 1),
		ids:    make([]QueueID, 0, len(queues)),
	}

	for _, id := range queues {
		_, present := t.queues.Get(id)
		lifeutils.DebugAssert(!present, "epochs: duplicate %s registered", id)
		if present {
			continue
		}

		state := &queueEpochs{
			// The live deque must never be empty while the queue exists.
			live: []*epoch{{}},
		}
		t.queues.Put(id, state)
		t.ids = append(t.ids, id)
	}

	slices.SortFunc(t.ids, func(a, b QueueID) bool {
		return a.Compare(b) < 0
	})
	return t
}

func (t *Tracker) queue(id QueueID) *queueEpochs {
	state, ok := t.queues.Get(id)
	if !ok {
		// Queue identities are statically known at device creation, so an
		// unknown ID is a caller bug. Asserted in debug builds, ignored in
		// release builds.
		lifeutils.DebugAssert(false, "epochs: unregistered %s", id)
		return nil
	}
	return state
}

// NextEpoch opens a new generation on the queue and returns its number. Work
// submitted from now until the next NextEpoch call lands in this generation.
func (t *Tracker) NextEpoch(id QueueID) uint64 {
	q := t.queue(id)
	if q == nil {
		return 0
	}

	q.mutex.Lock()
	defer q.mutex.Unlock()

	return t.openLocked(id, q)
}

func (t *Tracker) openLocked(id QueueID, q *queueEpochs) uint64 {
	q.current++

	var e *epoch
	if n := len(q.epochPool); n > 0 {
		e = q.epochPool[n-1]
		q.epochPool[n-1] = nil
		q.epochPool = q.epochPool[:n-1]
	} else {
		e = &epoch{}
	}
	q.live = append(q.live, e)

	if len(q.live) > liveEpochSoftLimit {
		t.logger.Warn("too many live epochs accumulated",
			slog.Int("family", id.Family),
			slog.Int("index", id.Index),
			slog.Int("liveEpochs", len(q.live)))
	}

	return q.current - 1
}

// CloseEpoch declares that all work submitted in generations up to and
// including epoch has completed on the queue. Every such generation is
// retired: its command buffers' reference bundles are cleared (allowing
// resource destruction to proceed) and the emptied containers return to the
// recycle pools.
//
// Closing the queue's open generation itself is allowed; the device-idle path
// does exactly that. The tracker then opens a fresh generation on the spot, so
// a queue never has zero live epochs. Closing a generation that is stale,
// already closed, or never opened is a benign no-op: racing completion
// notifications for overlapping ranges are expected.
func (t *Tracker) CloseEpoch(id QueueID, epoch uint64) {
	q := t.queue(id)
	if q == nil {
		return
	}

	q.mutex.Lock()
	defer q.mutex.Unlock()

	if epoch >= q.current {
		return
	}

	// keep is the number of newest generations that stay open: those numbered
	// above epoch. The newest live generation is current-1.
	diff := q.current - epoch - 1
	if diff > uint64(math.MaxInt) {
		return
	}

	keep := int(diff)
	if keep >= len(q.live) {
		return
	}

	cut := len(q.live) - keep
	for _, e := range q.live[:cut] {
		for i, cbuf := range e.cbufs {
			cbuf.retire()
			e.cbufs[i] = nil

			if len(q.cbufPool) < commandBufferPoolSoftLimit {
				q.cbufPool = append(q.cbufPool, cbuf)
			} else if !q.warnedCbufPool {
				q.warnedCbufPool = true
				t.logger.Warn("too large command buffer cache accumulated, dropping retired command buffers",
					slog.Int("family", id.Family),
					slog.Int("index", id.Index))
			}
		}
		e.cbufs = e.cbufs[:0]

		if len(q.epochPool) < epochPoolSoftLimit {
			q.epochPool = append(q.epochPool, e)
		} else if !q.warnedEpochPool {
			q.warnedEpochPool = true
			t.logger.Warn("too large epoch cache accumulated, dropping retired epochs",
				slog.Int("family", id.Family),
				slog.Int("index", id.Index))
		}
	}

	if len(q.cbufPool) < commandBufferPoolSoftLimit {
		q.warnedCbufPool = false
	}
	if len(q.epochPool) < epochPoolSoftLimit {
		q.warnedEpochPool = false
	}

	copy(q.live, q.live[cut:])
	for i := keep; i < len(q.live); i++ {
		q.live[i] = nil
	}
	q.live = q.live[:keep]

	if len(q.live) == 0 {
		t.openLocked(id, q)
	}
}

// NextEpochAllQueues opens a new generation on every queue and returns the
// opened numbers, sorted by queue ID. Used for device-idle waits: open
// everywhere, wait for the device, then close each returned pair.
//
// Locks are taken one queue at a time, so the operation is not atomic across
// the device as a whole. Each queue's counter is independent, so it does not
// need to be.
func (t *Tracker) NextEpochAllQueues() []QueueEpoch {
	result := make([]QueueEpoch, 0, len(t.ids))
	for _, id := range t.ids {
		q := t.queue(id)

		q.mutex.Lock()
		opened := t.openLocked(id, q)
		q.mutex.Unlock()

		result = append(result, QueueEpoch{Queue: id, Epoch: opened})
	}
	return result
}

// Submit attaches command buffers to the queue's current open generation.
// Must only be called between the NextEpoch that opened the generation and
// the CloseEpoch (or idle wait) that retires it.
func (t *Tracker) Submit(id QueueID, cbufs ...*CommandBuffer) {
	q := t.queue(id)
	if q == nil {
		return
	}

	q.mutex.Lock()
	defer q.mutex.Unlock()

	front := q.live[len(q.live)-1]
	for _, cbuf := range cbufs {
		lifeutils.DebugAssert(cbuf.queue == id, "epochs: submitting a command buffer recorded for %s to %s", cbuf.queue, id)
		cbuf.markPending()
		front.cbufs = append(front.cbufs, cbuf)
	}
}

// DrainCommandBuffers appends the queue's retired command buffers to into and
// empties the pool. The returned buffers have empty reference bundles and are
// ready for a new recording cycle.
func (t *Tracker) DrainCommandBuffers(id QueueID, into []*CommandBuffer) []*CommandBuffer {
	q := t.queue(id)
	if q == nil {
		return into
	}

	q.mutex.Lock()
	defer q.mutex.Unlock()

	into = append(into, q.cbufPool...)
	for i := range q.cbufPool {
		q.cbufPool[i] = nil
	}
	q.cbufPool = q.cbufPool[:0]
	return into
}

// Shutdown verifies that every queue has been fully drained and releases the
// tracker's state. A queue is drained when none of its live epochs hold
// command buffers; the mandatory fresh epoch on each queue is expected and
// fine. Returns an error naming the offending queues otherwise - the caller
// decides whether to treat that as a leak report or a bug.
//
// Shutdown is called exactly once by the owning device during teardown, after
// its final idle wait.
func (t *Tracker) Shutdown() error {
	var undrained []QueueID

	for _, id := range t.ids {
		q := t.queue(id)

		q.mutex.Lock()
		pending := 0
		for _, e := range q.live {
			pending += len(e.cbufs)
		}
		if pending > 0 {
			undrained = append(undrained, id)
		}

		q.live = nil
		q.epochPool = nil
		q.cbufPool = nil
		q.mutex.Unlock()
	}

	if len(undrained) > 0 {
		return errors.Newf("epoch tracker shut down with pending command buffers on queues %v", undrained)
	}
	return nil
}
