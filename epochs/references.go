package epochs

import (
	"github.com/arcana-engine/sierra-sub000/resource"
)

// References is the set of ownership shares a command buffer holds on every
// resource it touches. Each Add method takes its own share (via Clone), so the
// resource outlives the command buffer's execution no matter what the rest of
// the application does with it. Clear drops every share at once; individual
// removal does not exist because an entire command buffer retires atomically.
//
// One sequence per resource kind, no dynamic dispatch. Clearing runs once per
// epoch retirement, so the fixed arity keeps that path a set of plain loops.
type References struct {
	buffers                []*resource.Buffer
	images                 []*resource.Image
	imageViews             []*resource.ImageView
	graphicsPipelines      []*resource.GraphicsPipeline
	computePipelines       []*resource.ComputePipeline
	rayTracingPipelines    []*resource.RayTracingPipeline
	pipelineLayouts        []*resource.PipelineLayout
	framebuffers           []*resource.Framebuffer
	accelerationStructures []*resource.AccelerationStructure
	samplers               []*resource.Sampler
	descriptorSets         []*resource.DescriptorSet
}

func (r *References) AddBuffer(buffer *resource.Buffer) {
	r.buffers = append(r.buffers, buffer.Clone())
}

func (r *References) AddImage(image *resource.Image) {
	r.images = append(r.images, image.Clone())
}

func (r *References) AddImageView(view *resource.ImageView) {
	r.imageViews = append(r.imageViews, view.Clone())
}

func (r *References) AddGraphicsPipeline(pipeline *resource.GraphicsPipeline) {
	r.graphicsPipelines = append(r.graphicsPipelines, pipeline.Clone())
}

func (r *References) AddComputePipeline(pipeline *resource.ComputePipeline) {
	r.computePipelines = append(r.computePipelines, pipeline.Clone())
}

func (r *References) AddRayTracingPipeline(pipeline *resource.RayTracingPipeline) {
	r.rayTracingPipelines = append(r.rayTracingPipelines, pipeline.Clone())
}

func (r *References) AddPipelineLayout(layout *resource.PipelineLayout) {
	r.pipelineLayouts = append(r.pipelineLayouts, layout.Clone())
}

func (r *References) AddFramebuffer(framebuffer *resource.Framebuffer) {
	r.framebuffers = append(r.framebuffers, framebuffer.Clone())
}

func (r *References) AddAccelerationStructure(structure *resource.AccelerationStructure) {
	r.accelerationStructures = append(r.accelerationStructures, structure.Clone())
}

func (r *References) AddSampler(sampler *resource.Sampler) {
	r.samplers = append(r.samplers, sampler.Clone())
}

func (r *References) AddDescriptorSet(set *resource.DescriptorSet) {
	r.descriptorSets = append(r.descriptorSets, set.Clone())
}

// IsEmpty is true iff no shares of any kind are held.
func (r *References) IsEmpty() bool {
	return len(r.buffers) == 0 &&
		len(r.images) == 0 &&
		len(r.imageViews) == 0 &&
		len(r.graphicsPipelines) == 0 &&
		len(r.computePipelines) == 0 &&
		len(r.rayTracingPipelines) == 0 &&
		len(r.pipelineLayouts) == 0 &&
		len(r.framebuffers) == 0 &&
		len(r.accelerationStructures) == 0 &&
		len(r.samplers) == 0 &&
		len(r.descriptorSets) == 0
}

// Clear releases every held share. If the bundle held the last share of a
// resource, this is the point where the native object is destroyed.
func (r *References) Clear() {
	for i, buffer := range r.buffers {
		buffer.Release()
		r.buffers[i] = nil
	}
	r.buffers = r.buffers[:0]

	for i, image := range r.images {
		image.Release()
		r.images[i] = nil
	}
	r.images = r.images[:0]

	for i, view := range r.imageViews {
		view.Release()
		r.imageViews[i] = nil
	}
	r.imageViews = r.imageViews[:0]

	for i, pipeline := range r.graphicsPipelines {
		pipeline.Release()
		r.graphicsPipelines[i] = nil
	}
	r.graphicsPipelines = r.graphicsPipelines[:0]

	for i, pipeline := range r.computePipelines {
		pipeline.Release()
		r.computePipelines[i] = nil
	}
	r.computePipelines = r.computePipelines[:0]

	for i, pipeline := range r.rayTracingPipelines {
		pipeline.Release()
		r.rayTracingPipelines[i] = nil
	}
	r.rayTracingPipelines = r.rayTracingPipelines[:0]

	for i, layout := range r.pipelineLayouts {
		layout.Release()
		r.pipelineLayouts[i] = nil
	}
	r.pipelineLayouts = r.pipelineLayouts[:0]

	for i, framebuffer := range r.framebuffers {
		framebuffer.Release()
		r.framebuffers[i] = nil
	}
	r.framebuffers = r.framebuffers[:0]

	for i, structure := range r.accelerationStructures {
		structure.Release()
		r.accelerationStructures[i] = nil
	}
	r.accelerationStructures = r.accelerationStructures[:0]

	for i, sampler := range r.samplers {
		sampler.Release()
		r.samplers[i] = nil
	}
	r.samplers = r.samplers[:0]

	for i, set := range r.descriptorSets {
		set.Release()
		r.descriptorSets[i] = nil
	}
	r.descriptorSets = r.descriptorSets[:0]
}
