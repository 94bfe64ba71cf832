package renderer

import (
	"cmp"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// mergeBindGroupLayouts combines the vertex and fragment bind group layouts into one descriptor per group.
// An entry declared by both stages keeps the vertex declaration with the visibility of both; entries are
// sorted by binding.
//
// Parameters:
//   - vertexLayouts: bind group layout descriptors from the vertex shader
//   - fragmentLayouts: bind group layout descriptors from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
func mergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, max(len(vertexLayouts), len(fragmentLayouts)))
	for g, desc := range vertexLayouts {
		merged[g] = desc
	}

	for g, fDesc := range fragmentLayouts {
		vDesc, ok := merged[g]
		if !ok {
			merged[g] = fDesc
			continue
		}

		entries := slices.Clone(vDesc.Entries)
		for _, e := range fDesc.Entries {
			idx := slices.IndexFunc(entries, func(v wgpu.BindGroupLayoutEntry) bool { return v.Binding == e.Binding })
			if idx < 0 {
				entries = append(entries, e)
				continue
			}
			entries[idx].Visibility |= e.Visibility
		}
		slices.SortFunc(entries, func(a, b wgpu.BindGroupLayoutEntry) int {
			return cmp.Compare(a.Binding, b.Binding)
		})

		merged[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   vDesc.Label,
			Entries: entries,
		}
	}

	return merged
}

// pipelineLayoutGroups returns the merged group indices in ascending order, checking that they are contiguous
// from 0 since a pipeline layout cannot skip a group.
func pipelineLayoutGroups(merged map[int]wgpu.BindGroupLayoutDescriptor) ([]int, bool) {
	groups := make([]int, 0, len(merged))
	for g := range merged {
		groups = append(groups, g)
	}
	slices.Sort(groups)
	for i, g := range groups {
		if g != i {
			return groups, false
		}
	}
	return groups, true
}
