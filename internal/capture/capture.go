// Package capture runs external processes, streaming their output live while
// keeping a copy of both streams.
package capture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// Result holds the captured output and exit status of a process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the process exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Combined returns stderr followed by stdout.
func (r Result) Combined() []byte {
	out := make([]byte, 0, len(r.Stderr)+len(r.Stdout))
	out = append(out, r.Stderr...)
	return append(out, r.Stdout...)
}

// Run starts cmd, copies its stdout and stderr to the given writers as they
// arrive and buffers both. Nil writers discard the live copy. cmd.Stdout and
// cmd.Stderr must be unset.
//
// A process that cannot be started is an error; a non-zero exit is not.
func Run(cmd *exec.Cmd, stdout, stderr io.Writer) (Result, error) {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("failed to attach stdout: %w", err)
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("failed to attach stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("failed to run %s: %w", cmd.Path, err)
	}

	var outBuf, errBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		return tee(outPipe, stdout, &outBuf)
	})
	g.Go(func() error {
		return tee(errPipe, stderr, &errBuf)
	})
	// Both pipes must be drained before Wait closes them.
	readErr := g.Wait()
	waitErr := cmd.Wait()

	result := Result{Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes()}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return result, fmt.Errorf("failed to wait for %s: %w", cmd.Path, waitErr)
		}
		// -1 when the process was killed by a signal.
		result.ExitCode = exitErr.ExitCode()
	}
	if readErr != nil {
		return result, fmt.Errorf("failed to read output of %s: %w", cmd.Path, readErr)
	}
	return result, nil
}

// tee copies src into buf and, best effort, into live. A failing live writer
// never stops the capture.
func tee(src io.Reader, live io.Writer, buf *bytes.Buffer) error {
	chunk := make([]byte, 4096)
	for {
		n, err := src.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if _, werr := live.Write(chunk[:n]); werr != nil {
				// Best-effort live output.
				_ = werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
