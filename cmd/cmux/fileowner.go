package main

import (
	"io/fs"
	"syscall"
)

// fileOwnerUID extracts the owning uid from a Stat result, used to give the
// CLI an actionable message when the socket path exists but belongs to
// another user (spec §4.9 step 1, §6: "the CLI refuses other owners").
func fileOwnerUID(info fs.FileInfo) (int, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return int(stat.Uid), true
}
