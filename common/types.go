// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used in the BindGroupProvider to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
	// Linear uploads the pixels as RGBA8Unorm instead of RGBA8UnormSrgb. Glyph masks and other non-color data should set this.
	Linear bool
}

// TextureStagingDataFromRGBA wraps an in-memory RGBA image as staging data without copying its pixels.
//
// Parameters:
//   - img: the source image
//   - linear: whether the texture holds non-color data
//
// Returns:
//   - TextureStagingData: staging data referencing img.Pix
func TextureStagingDataFromRGBA(img *image.RGBA, linear bool) TextureStagingData {
	b := img.Bounds()
	return TextureStagingData{
		Pixels: img.Pix,
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		Linear: linear,
	}
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero values fall back to linear filtering with repeat addressing.
type SamplerStagingData struct {
	// Nearest forces nearest-neighbor filtering for magnification, minification and mip selection,
	// overriding the filter fields.
	Nearest bool
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// Compare specifies the comparison function for comparison samplers.
	Compare wgpu.CompareFunction
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}
