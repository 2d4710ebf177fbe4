package rescache

// ResourceCache is a general purpose cache for derived, recomputable resources.
// It evicts resources based on their last used epoch: each time a resource is
// fetched, its last used epoch is updated to the cache's current epoch, and
// Evict discards everything that has not been used since a caller-chosen
// threshold.
//
// The cache's epoch counter is local to the cache. It is not synchronized with
// the per-queue epochs of the tracker; they share only the
// counter-plus-threshold pattern.
//
// Lookup is a linear predicate scan. This strategy works best for resources
// that may become obsolete and require a substantial amount of memory while
// only a few are in use at a time, so the cache stays small by design.
//
// ResourceCache is not safe for concurrent use; callers guard it.
type ResourceCache[T any] struct {
	resources    []cacheEntry[T]
	currentEpoch uint64
}

type cacheEntry[T any] struct {
	resource T
	lastUsed uint64
}

// NewResourceCache creates a new empty cache.
func NewResourceCache[T any]() *ResourceCache[T] {
	return &ResourceCache[T]{}
}

// NewResourceCacheWithCapacity creates a new cache with preallocated resource capacity.
func NewResourceCacheWithCapacity[T any](capacity int) *ResourceCache[T] {
	return &ResourceCache[T]{
		resources: make([]cacheEntry[T], 0, capacity),
	}
}

// Fetch returns the first resource matching eq and stamps it with the current
// epoch. The second return is false if no resource matches.
func (c *ResourceCache[T]) Fetch(eq func(T) bool) (T, bool) {
	for i := range c.resources {
		if eq(c.resources[i].resource) {
			c.resources[i].lastUsed = c.currentEpoch
			return c.resources[i].resource, true
		}
	}

	var zero T
	return zero, false
}

// FetchNoUpdate returns the first resource matching eq without stamping its
// last used epoch. Useful when the caller only holds a shared view of the cache.
func (c *ResourceCache[T]) FetchNoUpdate(eq func(T) bool) (T, bool) {
	for i := range c.resources {
		if eq(c.resources[i].resource) {
			return c.resources[i].resource, true
		}
	}

	var zero T
	return zero, false
}

// FetchOrCreate returns the first resource matching eq, creating and inserting
// one with create on a miss. The returned resource is stamped with the current
// epoch either way.
func (c *ResourceCache[T]) FetchOrCreate(eq func(T) bool, create func() T) T {
	resource, _ := c.TryFetchOrCreate(eq, func() (T, error) {
		return create(), nil
	})
	return resource
}

// TryFetchOrCreate returns the first resource matching eq, creating and
// inserting one with create on a miss. If create fails, no entry is added and
// the error is returned to the caller untouched.
func (c *ResourceCache[T]) TryFetchOrCreate(eq func(T) bool, create func() (T, error)) (T, error) {
	for i := range c.resources {
		if eq(c.resources[i].resource) {
			c.resources[i].lastUsed = c.currentEpoch
			return c.resources[i].resource, nil
		}
	}

	resource, err := create()
	if err != nil {
		var zero T
		return zero, err
	}

	c.resources = append(c.resources, cacheEntry[T]{resource: resource, lastUsed: c.currentEpoch})
	return resource, nil
}

// NextEpoch moves the cache to the next epoch. It does not evict anything by
// itself.
func (c *ResourceCache[T]) NextEpoch() {
	c.currentEpoch++
}

// CurrentEpoch returns the cache's current epoch.
func (c *ResourceCache[T]) CurrentEpoch() uint64 {
	return c.currentEpoch
}

// Evict removes every resource that has not been used since the provided
// epoch, preserving the relative order of the remainder, and returns the
// removed resources so the caller can release any ownership shares they
// represent. The eviction policy belongs to the caller: "evict everything
// unused for the last K epochs" is Evict(CurrentEpoch() - K).
func (c *ResourceCache[T]) Evict(epoch uint64) []T {
	var evicted []T
	retained := c.resources[:0]
	for i := range c.resources {
		if c.resources[i].lastUsed >= epoch {
			retained = append(retained, c.resources[i])
		} else {
			evicted = append(evicted, c.resources[i].resource)
		}
	}

	// Zero the tail so evicted resources do not linger past eviction.
	for i := len(retained); i < len(c.resources); i++ {
		c.resources[i] = cacheEntry[T]{}
	}
	c.resources = retained
	return evicted
}

// Len returns the number of cached resources.
func (c *ResourceCache[T]) Len() int {
	return len(c.resources)
}
