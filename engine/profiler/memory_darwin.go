//go:build darwin

package profiler

import "golang.org/x/sys/unix"

func systemMemory() uint64 {
	total, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0
	}
	return total
}
