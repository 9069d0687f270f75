//go:build !windows

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

func detectTerminalWidth() int {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err == nil && ws != nil && ws.Col > 0 {
		return int(ws.Col)
	}
	return columnsFromEnv()
}
