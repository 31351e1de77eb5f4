// internal/harness/executor_other.go
// Package: harness

//go:build !unix

package harness

import "os/exec"

// killProcessGroup leaves the default cancellation, which kills only the
// launcher process.
func killProcessGroup(*exec.Cmd) {}
