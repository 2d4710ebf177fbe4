package resource

import (
	"github.com/vkngwrapper/core/v2/core1_0"
)

// Pipeline construction is handled outside this module; these wrappers only
// give already-built pipelines shared ownership and deferred destruction. The
// three bind points stay separate types so the reference bundle keeps one
// sequence per kind.

// GraphicsPipeline is a shared-ownership handle for a graphics pipeline.
type GraphicsPipeline struct {
	handle core1_0.Pipeline
	life   refLife
}

func NewGraphicsPipeline(handle core1_0.Pipeline, owner Reclaimer, ownerUID uint64, index int) *GraphicsPipeline {
	p := &GraphicsPipeline{handle: handle}
	p.life.init(owner, ownerUID, index)
	return p
}

func (p *GraphicsPipeline) Handle() core1_0.Pipeline {
	return p.handle
}

func (p *GraphicsPipeline) Index() int {
	return p.life.index
}

func (p *GraphicsPipeline) OwnedBy(ownerUID uint64) bool {
	return p.life.ownerUID == ownerUID
}

func (p *GraphicsPipeline) Clone() *GraphicsPipeline {
	p.life.acquire()
	return p
}

func (p *GraphicsPipeline) Release() {
	p.life.release(KindGraphicsPipeline)
}

func (p *GraphicsPipeline) References() int {
	return p.life.references()
}

// ComputePipeline is a shared-ownership handle for a compute pipeline.
type ComputePipeline struct {
	handle core1_0.Pipeline
	life   refLife
}

func NewComputePipeline(handle core1_0.Pipeline, owner Reclaimer, ownerUID uint64, index int) *ComputePipeline {
	p := &ComputePipeline{handle: handle}
	p.life.init(owner, ownerUID, index)
	return p
}

func (p *ComputePipeline) Handle() core1_0.Pipeline {
	return p.handle
}

func (p *ComputePipeline) Index() int {
	return p.life.index
}

func (p *ComputePipeline) OwnedBy(ownerUID uint64) bool {
	return p.life.ownerUID == ownerUID
}

func (p *ComputePipeline) Clone() *ComputePipeline {
	p.life.acquire()
	return p
}

func (p *ComputePipeline) Release() {
	p.life.release(KindComputePipeline)
}

func (p *ComputePipeline) References() int {
	return p.life.references()
}

// RayTracingPipeline is a shared-ownership handle for a ray-tracing pipeline.
type RayTracingPipeline struct {
	handle core1_0.Pipeline
	life   refLife
}

func NewRayTracingPipeline(handle core1_0.Pipeline, owner Reclaimer, ownerUID uint64, index int) *RayTracingPipeline {
	p := &RayTracingPipeline{handle: handle}
	p.life.init(owner, ownerUID, index)
	return p
}

func (p *RayTracingPipeline) Handle() core1_0.Pipeline {
	return p.handle
}

func (p *RayTracingPipeline) Index() int {
	return p.life.index
}

func (p *RayTracingPipeline) OwnedBy(ownerUID uint64) bool {
	return p.life.ownerUID == ownerUID
}

func (p *RayTracingPipeline) Clone() *RayTracingPipeline {
	p.life.acquire()
	return p
}

func (p *RayTracingPipeline) Release() {
	p.life.release(KindRayTracingPipeline)
}

func (p *RayTracingPipeline) References() int {
	return p.life.references()
}

// PipelineLayout is a shared-ownership handle for a pipeline layout.
type PipelineLayout struct {
	handle core1_0.PipelineLayout
	life   refLife
}

func NewPipelineLayout(handle core1_0.PipelineLayout, owner Reclaimer, ownerUID uint64, index int) *PipelineLayout {
	l := &PipelineLayout{handle: handle}
	l.life.init(owner, ownerUID, index)
	return l
}

func (l *PipelineLayout) Handle() core1_0.PipelineLayout {
	return l.handle
}

func (l *PipelineLayout) Index() int {
	return l.life.index
}

func (l *PipelineLayout) OwnedBy(ownerUID uint64) bool {
	return l.life.ownerUID == ownerUID
}

func (l *PipelineLayout) Clone() *PipelineLayout {
	l.life.acquire()
	return l
}

func (l *PipelineLayout) Release() {
	l.life.release(KindPipelineLayout)
}

func (l *PipelineLayout) References() int {
	return l.life.references()
}
