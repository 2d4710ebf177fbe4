package resource

import (
	"github.com/vkngwrapper/core/v2/core1_0"
)

// SamplerInfo describes a sampler at creation time. It is comparable so a
// sampler cache can use it as a lookup key.
type SamplerInfo struct {
	MagFilter     core1_0.Filter
	MinFilter     core1_0.Filter
	MipmapMode    core1_0.SamplerMipmapMode
	AddressModeU  core1_0.SamplerAddressMode
	AddressModeV  core1_0.SamplerAddressMode
	AddressModeW  core1_0.SamplerAddressMode
	MaxAnisotropy float32
}

// Sampler is a shared-ownership handle for a sampler.
type Sampler struct {
	handle core1_0.Sampler
	info   SamplerInfo
	life   refLife
}

func NewSampler(handle core1_0.Sampler, info SamplerInfo, owner Reclaimer, ownerUID uint64, index int) *Sampler {
	s := &Sampler{handle: handle, info: info}
	s.life.init(owner, ownerUID, index)
	return s
}

func (s *Sampler) Handle() core1_0.Sampler {
	return s.handle
}

func (s *Sampler) Info() SamplerInfo {
	return s.info
}

func (s *Sampler) Index() int {
	return s.life.index
}

func (s *Sampler) OwnedBy(ownerUID uint64) bool {
	return s.life.ownerUID == ownerUID
}

func (s *Sampler) Clone() *Sampler {
	s.life.acquire()
	return s
}

func (s *Sampler) Release() {
	s.life.release(KindSampler)
}

func (s *Sampler) References() int {
	return s.life.references()
}
