//go:build !linux && !darwin

package profiler

// systemMemory is unknown on this platform; the memory bars render empty.
func systemMemory() uint64 {
	return 0
}
