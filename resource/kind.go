package resource

// Kind identifies one category of native resource. Each kind has its own
// arena in the owning device.
type Kind uint32

const (
	KindBuffer Kind = iota
	KindImage
	KindImageView
	KindGraphicsPipeline
	KindComputePipeline
	KindRayTracingPipeline
	KindPipelineLayout
	KindFramebuffer
	KindAccelerationStructure
	KindSampler
	KindDescriptorSet
)

var kindMapping = make(map[Kind]string)

func (k Kind) String() string {
	return kindMapping[k]
}

func init() {
	kindMapping[KindBuffer] = "KindBuffer"
	kindMapping[KindImage] = "KindImage"
	kindMapping[KindImageView] = "KindImageView"
	kindMapping[KindGraphicsPipeline] = "KindGraphicsPipeline"
	kindMapping[KindComputePipeline] = "KindComputePipeline"
	kindMapping[KindRayTracingPipeline] = "KindRayTracingPipeline"
	kindMapping[KindPipelineLayout] = "KindPipelineLayout"
	kindMapping[KindFramebuffer] = "KindFramebuffer"
	kindMapping[KindAccelerationStructure] = "KindAccelerationStructure"
	kindMapping[KindSampler] = "KindSampler"
	kindMapping[KindDescriptorSet] = "KindDescriptorSet"
}
