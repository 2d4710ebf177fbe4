package device

import (
	"github.com/arcana-engine/sierra-sub000/internal/utils"
	"github.com/arcana-engine/sierra-sub000/rescache"
	"github.com/arcana-engine/sierra-sub000/resource"
)

// ImageViewCache caches image views using the epoch eviction strategy of
// rescache.ResourceCache, with convenience lookups for the common "default
// view of a whole image" case.
//
// The cache holds the creating ownership share of every view it stores;
// callers that keep a returned view past the next Evict must Clone it.
// The cache's epoch counter is its own and is not synchronized with the
// device's queue epochs.
type ImageViewCache struct {
	mutex utils.OptionalRWMutex
	cache *rescache.ResourceCache[*resource.ImageView]
}

// NewImageViewCache creates a new empty cache.
func NewImageViewCache(useMutex bool) *ImageViewCache {
	return &ImageViewCache{
		mutex: utils.OptionalRWMutex{UseMutex: useMutex},
		cache: rescache.NewResourceCache[*resource.ImageView](),
	}
}

// NewImageViewCacheWithCapacity creates a new cache with preallocated capacity.
func NewImageViewCacheWithCapacity(useMutex bool, capacity int) *ImageViewCache {
	return &ImageViewCache{
		mutex: utils.OptionalRWMutex{UseMutex: useMutex},
		cache: rescache.NewResourceCacheWithCapacity[*resource.ImageView](capacity),
	}
}

// FetchImage returns the cached whole-image view for image, if present.
func (c *ImageViewCache) FetchImage(image *resource.Image) (*resource.ImageView, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.cache.Fetch(func(view *resource.ImageView) bool {
		return view.Info().IsWholeImage(image)
	})
}

// FetchImageView returns the cached view matching info, if present.
func (c *ImageViewCache) FetchImageView(info *resource.ImageViewInfo) (*resource.ImageView, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.cache.Fetch(func(view *resource.ImageView) bool {
		return view.Info().Equal(info)
	})
}

// MakeImage returns the whole-image view for image, creating it through
// device on a miss.
func (c *ImageViewCache) MakeImage(image *resource.Image, device *Device) (*resource.ImageView, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.cache.TryFetchOrCreate(
		func(view *resource.ImageView) bool {
			return view.Info().IsWholeImage(image)
		},
		func() (*resource.ImageView, error) {
			return device.CreateImageView(resource.NewWholeImageViewInfo(image))
		},
	)
}

// MakeImageView returns the view matching info, creating it through device on
// a miss.
func (c *ImageViewCache) MakeImageView(info resource.ImageViewInfo, device *Device) (*resource.ImageView, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.cache.TryFetchOrCreate(
		func(view *resource.ImageView) bool {
			return view.Info().Equal(&info)
		},
		func() (*resource.ImageView, error) {
			return device.CreateImageView(info)
		},
	)
}

// NextEpoch advances the cache's epoch counter.
func (c *ImageViewCache) NextEpoch() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache.NextEpoch()
}

// CurrentEpoch returns the cache's current epoch.
func (c *ImageViewCache) CurrentEpoch() uint64 {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.cache.CurrentEpoch()
}

// Evict releases every view not used since the given cache epoch. Views whose
// cache share was the last owner are destroyed through their device.
func (c *ImageViewCache) Evict(epoch uint64) {
	c.mutex.Lock()
	evicted := c.cache.Evict(epoch)
	c.mutex.Unlock()

	// Released outside the lock: a release can cascade into native destroys.
	for _, view := range evicted {
		view.Release()
	}
}

// Len returns the number of cached views.
func (c *ImageViewCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.cache.Len()
}

// Clear releases every cached view regardless of epoch.
func (c *ImageViewCache) Clear() {
	c.Evict(c.CurrentEpoch() + 1)
}
