// Package ptyhost implements a hostiface.TerminalHost backed by real PTY
// processes, for use by cmuxd (the host stand-in). It generalizes the
// teacher's internal/terminal.Terminal (creack/pty-backed process, ReadLoop
// draining output) down to the hostiface.TerminalHost methods
// Spawn/Write/Resize/Close, of which the dispatcher calls only Write, against
// a panel's Host handle. Unlike the teacher, there is no
// renderer on the other end, so output is drained into a small ring buffer
// rather than pushed to a frontend (the terminal emulator rendering engine
// is out of scope per spec §1).
package ptyhost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"github.com/google/uuid"
)

const outputBufferBytes = 64 * 1024

// Host spawns and tracks one PTY-backed shell process per surface handle.
type Host struct {
	mu   sync.Mutex
	logs *slog.Logger
	proc map[string]*process
}

type process struct {
	cmd  *exec.Cmd
	ptmx *os.File

	mu  sync.Mutex
	buf []byte
}

// New creates a Host. logs may be nil, in which case slog.Default() is used.
func New(logs *slog.Logger) *Host {
	if logs == nil {
		logs = slog.Default()
	}
	return &Host{logs: logs, proc: map[string]*process{}}
}

// Spawn starts $SHELL (or /bin/sh when unset) in cwd, as a plain rather than
// login shell, and returns the surface id as its handle.
func (h *Host) Spawn(ctx context.Context, surfaceID uuid.UUID, cwd string) (string, error) {
	handle := surfaceID.String()

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell)
	if cwd != "" {
		cmd.Dir = cwd
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: 80, Rows: 24})
	if err != nil {
		return "", fmt.Errorf("spawn terminal: %w", err)
	}

	p := &process{cmd: cmd, ptmx: ptmx}

	h.mu.Lock()
	h.proc[handle] = p
	h.mu.Unlock()

	go h.drain(handle, p)
	return handle, nil
}

// drain keeps the PTY readable (required for the child to make progress)
// and retains the tail of output in a bounded buffer.
func (h *Host) drain(handle string, p *process) {
	buf := make([]byte, 4096)
	for {
		n, err := p.ptmx.Read(buf)
		if n > 0 {
			p.mu.Lock()
			p.buf = append(p.buf, buf[:n]...)
			if over := len(p.buf) - outputBufferBytes; over > 0 {
				p.buf = p.buf[over:]
			}
			p.mu.Unlock()
		}
		if err != nil {
			h.logs.Debug("ptyhost: read loop exiting", "handle", handle, "error", err)
			return
		}
	}
}

// Write sends input bytes to the shell.
func (h *Host) Write(handle string, data []byte) error {
	p, err := h.lookup(handle)
	if err != nil {
		return err
	}
	_, err = p.ptmx.Write(data)
	return err
}

// Resize updates the PTY window size.
func (h *Host) Resize(handle string, cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return errors.New("ptyhost: invalid size")
	}
	p, err := h.lookup(handle)
	if err != nil {
		return err
	}
	return pty.Setsize(p.ptmx, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
}

// Close terminates the process and releases the PTY.
func (h *Host) Close(handle string) error {
	h.mu.Lock()
	p, ok := h.proc[handle]
	if ok {
		delete(h.proc, handle)
	}
	h.mu.Unlock()
	if !ok {
		return nil
	}

	var firstErr error
	if p.cmd.Process != nil {
		if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			firstErr = err
		}
	}
	if err := p.ptmx.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Tail returns the most recently retained output bytes for handle, for
// diagnostics; the core has no rendering path and never calls this.
func (h *Host) Tail(handle string) ([]byte, error) {
	p, err := h.lookup(handle)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]byte, len(p.buf))
	copy(out, p.buf)
	return out, nil
}

func (h *Host) lookup(handle string) (*process, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.proc[handle]
	if !ok {
		return nil, fmt.Errorf("ptyhost: unknown handle %q", handle)
	}
	return p, nil
}
