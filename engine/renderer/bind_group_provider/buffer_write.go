package bind_group_provider

// BufferTarget selects which of a provider's buffers a BufferWrite lands in.
type BufferTarget int

const (
	// BufferTargetUniform writes the uniform buffer at Binding.
	BufferTargetUniform BufferTarget = iota
	// BufferTargetVertex writes the vertex buffer at slot Binding.
	BufferTargetVertex
	// BufferTargetIndex writes the index buffer; Binding is ignored.
	BufferTargetIndex
)

// BufferWrite describes a single GPU buffer write operation targeting one buffer
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Target   BufferTarget
	Binding  int
	Offset   uint64
	Data     []byte
}
