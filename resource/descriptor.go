package resource

import (
	"github.com/vkngwrapper/core/v2/core1_0"
)

// DescriptorSet is a shared-ownership handle for a descriptor set. Allocation
// and freeing of the underlying pool slot belong to the external descriptor
// allocator; this wrapper only defers the free until the last owner is gone.
type DescriptorSet struct {
	handle core1_0.DescriptorSet
	life   refLife
}

func NewDescriptorSet(handle core1_0.DescriptorSet, owner Reclaimer, ownerUID uint64, index int) *DescriptorSet {
	d := &DescriptorSet{handle: handle}
	d.life.init(owner, ownerUID, index)
	return d
}

func (d *DescriptorSet) Handle() core1_0.DescriptorSet {
	return d.handle
}

func (d *DescriptorSet) Index() int {
	return d.life.index
}

func (d *DescriptorSet) OwnedBy(ownerUID uint64) bool {
	return d.life.ownerUID == ownerUID
}

func (d *DescriptorSet) Clone() *DescriptorSet {
	d.life.acquire()
	return d
}

func (d *DescriptorSet) Release() {
	d.life.release(KindDescriptorSet)
}

func (d *DescriptorSet) References() int {
	return d.life.references()
}
