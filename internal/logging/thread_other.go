//go:build !linux

package logging

func threadID() int64 { return int64(pid) }
