package resource

import (
	"sync/atomic"

	"github.com/arcana-engine/sierra-sub000/lifeutils"
)

// Reclaimer receives the arena index of a resource whose last owner released
// it. The device implements this by removing the index from the matching
// arena and destroying the returned native handle.
//
// The reclaimer reference stored in each resource is an identity backref, not
// an ownership edge: resources compare owners by UID and never keep a device
// alive past its explicit Shutdown.
type Reclaimer interface {
	Reclaim(kind Kind, index int)
}

// refLife is the shared ownership state embedded in every resource wrapper.
// Clone increments the count, Release decrements it, and the release that
// drops the count to zero hands the arena index back to the reclaimer.
type refLife struct {
	owner    Reclaimer
	ownerUID uint64
	index    int
	count    atomic.Int64
}

func (l *refLife) init(owner Reclaimer, ownerUID uint64, index int) {
	l.owner = owner
	l.ownerUID = ownerUID
	l.index = index
	l.count.Store(1)
}

func (l *refLife) acquire() {
	old := l.count.Add(1) - 1
	lifeutils.DebugAssert(old > 0, "resource: Clone of a fully released handle (index %d)", l.index)
}

// release reports whether the caller dropped the last reference. The reclaim
// call happens before release returns, so wrappers can run their own
// last-owner cleanup afterwards.
func (l *refLife) release(kind Kind) bool {
	remaining := l.count.Add(-1)
	lifeutils.DebugAssert(remaining >= 0, "resource: Release after the last owner already released (%s index %d)", kind, l.index)

	if remaining != 0 {
		return false
	}
	if l.owner != nil {
		l.owner.Reclaim(kind, l.index)
	}
	return true
}

// References reports the current ownership count. Diagnostic only; the value
// may be stale by the time the caller reads it.
func (l *refLife) references() int {
	return int(l.count.Load())
}
