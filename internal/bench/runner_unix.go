//go:build !windows

package bench

import (
	"os"
	"syscall"
)

// signalTerm asks the worker process to exit gracefully.
func signalTerm(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}
