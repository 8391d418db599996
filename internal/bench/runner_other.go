//go:build windows

package bench

import "os"

// signalTerm kills the worker process outright. Windows has no SIGTERM
// equivalent the runner can rely on.
func signalTerm(p *os.Process) error {
	return p.Kill()
}
