package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderKeepsLabel(t *testing.T) {
	p := NewBindGroupProvider("Profiler Overlay")

	assert.Equal(t, "Profiler Overlay", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.TextureView(1))
	assert.Nil(t, p.Sampler(2))
	assert.Nil(t, p.InstanceBuffer())
}

func TestCountsResetOnRelease(t *testing.T) {
	p := NewBindGroupProvider("Quad")
	p.SetIndexCount(6)
	p.SetInstanceBuffer(nil, 96)

	assert.Equal(t, 6, p.IndexCount())
	assert.Equal(t, uint64(96), p.InstanceStride())

	p.Release()
	assert.Zero(t, p.IndexCount())
	assert.Zero(t, p.InstanceStride())
}
