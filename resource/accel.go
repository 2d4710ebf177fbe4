package resource

import (
	"github.com/vkngwrapper/extensions/v2/khr_acceleration_structure"
)

// AccelerationStructure is a shared-ownership handle for a ray-tracing
// acceleration structure.
type AccelerationStructure struct {
	handle khr_acceleration_structure.AccelerationStructure
	life   refLife
}

func NewAccelerationStructure(handle khr_acceleration_structure.AccelerationStructure, owner Reclaimer, ownerUID uint64, index int) *AccelerationStructure {
	a := &AccelerationStructure{handle: handle}
	a.life.init(owner, ownerUID, index)
	return a
}

func (a *AccelerationStructure) Handle() khr_acceleration_structure.AccelerationStructure {
	return a.handle
}

func (a *AccelerationStructure) Index() int {
	return a.life.index
}

func (a *AccelerationStructure) OwnedBy(ownerUID uint64) bool {
	return a.life.ownerUID == ownerUID
}

func (a *AccelerationStructure) Clone() *AccelerationStructure {
	a.life.acquire()
	return a
}

func (a *AccelerationStructure) Release() {
	a.life.release(KindAccelerationStructure)
}

func (a *AccelerationStructure) References() int {
	return a.life.references()
}
