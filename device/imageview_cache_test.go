package device_test

import (
	"testing"

	"github.com/arcana-engine/sierra-sub000/device"
	"github.com/arcana-engine/sierra-sub000/resource"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestMakeImageCachesWholeImageView(t *testing.T) {
	d, native := newTestDevice(t)
	cache := device.NewImageViewCache(true)

	image, err := d.CreateImage(resource.ImageInfo{MipLevels: 1, ArrayLayers: 1})
	require.NoError(t, err)

	first, err := cache.MakeImage(image, d)
	require.NoError(t, err)
	require.Len(t, native.ImageViews, 1)

	second, err := cache.MakeImage(image, d)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Len(t, native.ImageViews, 1)

	cached, ok := cache.FetchImage(image)
	require.True(t, ok)
	require.Same(t, first, cached)
}

func TestMakeImageViewDistinguishesInfos(t *testing.T) {
	d, native := newTestDevice(t)
	cache := device.NewImageViewCache(true)

	image, err := d.CreateImage(resource.ImageInfo{MipLevels: 4, ArrayLayers: 1})
	require.NoError(t, err)

	whole := resource.NewWholeImageViewInfo(image)
	_, err = cache.MakeImageView(whole, d)
	require.NoError(t, err)

	partial := whole
	partial.SubresourceRange.LevelCount = 1
	_, err = cache.MakeImageView(partial, d)
	require.NoError(t, err)

	require.Len(t, native.ImageViews, 2)
	require.Equal(t, 2, cache.Len())
}

func TestCacheFactoryFailureAddsNothing(t *testing.T) {
	d, native := newTestDevice(t)
	cache := device.NewImageViewCache(true)

	image, err := d.CreateImage(resource.ImageInfo{MipLevels: 1, ArrayLayers: 1})
	require.NoError(t, err)

	boom := errors.New("no memory for view")
	native.CreateImageViewErr = boom

	_, err = cache.MakeImage(image, d)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, cache.Len())

	native.CreateImageViewErr = nil
	_, err = cache.MakeImage(image, d)
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())
}

func TestCacheEvictionDestroysUnusedViews(t *testing.T) {
	d, native := newTestDevice(t)
	cache := device.NewImageViewCache(true)

	image, err := d.CreateImage(resource.ImageInfo{MipLevels: 1, ArrayLayers: 1})
	require.NoError(t, err)

	_, err = cache.MakeImage(image, d)
	require.NoError(t, err)
	image.Release()

	cache.NextEpoch()
	cache.Evict(cache.CurrentEpoch())

	require.Equal(t, 0, cache.Len())
	require.True(t, native.ImageViews[0].Destroyed)
	// The cached view held the last image share too.
	require.True(t, native.Images[0].Destroyed)

	// An evicted image is a fresh miss.
	// (The image handle above is gone; make a new one.)
	fresh, err := d.CreateImage(resource.ImageInfo{MipLevels: 1, ArrayLayers: 1})
	require.NoError(t, err)
	_, err = cache.MakeImage(fresh, d)
	require.NoError(t, err)
	require.Len(t, native.ImageViews, 2)
}

func TestCacheEvictionKeepsRecentlyUsedViews(t *testing.T) {
	d, native := newTestDevice(t)
	cache := device.NewImageViewCache(true)

	stale, err := d.CreateImage(resource.ImageInfo{MipLevels: 1, ArrayLayers: 1})
	require.NoError(t, err)
	hot, err := d.CreateImage(resource.ImageInfo{MipLevels: 2, ArrayLayers: 1})
	require.NoError(t, err)

	_, err = cache.MakeImage(stale, d)
	require.NoError(t, err)
	_, err = cache.MakeImage(hot, d)
	require.NoError(t, err)

	cache.NextEpoch()
	_, ok := cache.FetchImage(hot)
	require.True(t, ok)

	cache.Evict(cache.CurrentEpoch())
	require.Equal(t, 1, cache.Len())
	require.True(t, native.ImageViews[0].Destroyed)
	require.False(t, native.ImageViews[1].Destroyed)
}

func TestCacheClear(t *testing.T) {
	d, native := newTestDevice(t)
	cache := device.NewImageViewCache(true)

	image, err := d.CreateImage(resource.ImageInfo{MipLevels: 1, ArrayLayers: 1})
	require.NoError(t, err)

	_, err = cache.MakeImage(image, d)
	require.NoError(t, err)

	cache.Clear()
	require.Equal(t, 0, cache.Len())
	require.True(t, native.ImageViews[0].Destroyed)
}
