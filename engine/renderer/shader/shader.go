package shader

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader runs in.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

var (
	vertexEntryRegex   = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)
)

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	vertexLayouts              []wgpu.VertexBufferLayout
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a WGSL shader stage together with the bind group and vertex
// buffer layouts the renderer needs to build a pipeline around it.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for a group index.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if not set
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all bind group layout descriptors keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// VertexLayouts retrieves the vertex buffer layouts in slot order.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts, nil for fragment shaders
	VertexLayouts() []wgpu.VertexBufferLayout

	// Module returns the wgpu.ShaderModuleDescriptor for this shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader creates a new Shader from WGSL source. The entry point is read from the first
// @vertex or @fragment function in the source unless WithEntryPoint overrides it.
// Panics if the source is empty or no entry point can be found, since the pipeline can never be built.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the stage of the shader
//   - source: the WGSL source code
//   - options: variadic list of ShaderBuilderOption functions
//
// Returns:
//   - Shader: a new Shader instance with the provided configuration
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) Shader {
	if strings.TrimSpace(source) == "" {
		panic(fmt.Sprintf("shader: %s must have a non-empty source", key))
	}
	s := &shader{
		key:                        key,
		source:                     source,
		shaderType:                 shaderType,
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.entryPoint == "" {
		s.entryPoint = parseEntryPoint(source, shaderType)
	}
	if s.entryPoint == "" {
		panic(fmt.Sprintf("shader: %s has no entry point", key))
	}
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

// parseEntryPoint finds the name of the first function tagged with the stage attribute,
// ignoring commented-out code.
func parseEntryPoint(source string, shaderType ShaderType) string {
	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(stripComments(source)); match != nil {
		return match[1]
	}
	return ""
}

func stripComments(source string) string {
	for {
		start := strings.Index(source, "/*")
		if start < 0 {
			break
		}
		end := strings.Index(source[start+2:], "*/")
		if end < 0 {
			source = source[:start]
			break
		}
		source = source[:start] + source[start+2+end+2:]
	}

	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
