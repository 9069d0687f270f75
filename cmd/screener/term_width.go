package main

import (
	"os"
	"strconv"
)

// columnsFromEnv reads $COLUMNS, which most shells export for interactive sessions.
func columnsFromEnv() int {
	if cols, ok := os.LookupEnv("COLUMNS"); ok {
		if n, err := strconv.Atoi(cols); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
