//go:build linux

package profiler

import "golang.org/x/sys/unix"

// systemMemory returns total physical RAM from sysinfo(2), or 0 on failure.
func systemMemory() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return uint64(info.Totalram) * uint64(info.Unit)
}
