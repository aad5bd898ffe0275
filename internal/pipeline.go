package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"
)

// Stage is one subprocess in a producer→transcoder→transcriber chain,
// connected to its neighbors via byte streams.
type Stage struct {
	Name string
	Path string
	Args []string
}

func (s Stage) String() string {
	return s.Name
}

// Pipeline runs stages as concurrent OS processes with each stage's stdout
// wired to the next stage's stdin. The connecting pipes provide the
// backpressure; a failure anywhere aborts the whole chain.
type Pipeline struct {
	stages  []Stage
	verbose bool
}

// NewPipeline creates a pipeline from the given stages
func NewPipeline(verbose bool, stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages, verbose: verbose}
}

// Run starts every stage, streams the final stage's stdout into out, and
// waits for completion. The first stage to fail cancels the rest.
func (p *Pipeline) Run(ctx context.Context, out io.Writer) error {
	if len(p.stages) == 0 {
		return fmt.Errorf("pipeline has no stages")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmds := make([]*exec.Cmd, len(p.stages))
	stderrs := make([]*tailBuffer, len(p.stages))
	for i, stage := range p.stages {
		cmd := exec.CommandContext(ctx, stage.Path, stage.Args...)
		tail := &tailBuffer{limit: 4096}
		cmd.Stderr = tail

		if i > 0 {
			pipe, err := cmds[i-1].StdoutPipe()
			if err != nil {
				return fmt.Errorf("connecting %s to %s: %w", p.stages[i-1].Name, stage.Name, err)
			}
			cmd.Stdin = pipe
		}

		cmds[i] = cmd
		stderrs[i] = tail
	}
	cmds[len(cmds)-1].Stdout = out

	if p.verbose {
		names := make([]string, len(p.stages))
		for i, stage := range p.stages {
			names[i] = stage.Name
		}
		fmt.Printf("Running pipeline: %s\n", strings.Join(names, " | "))
	}

	for i, cmd := range cmds {
		if err := cmd.Start(); err != nil {
			cancel()
			for j := range i {
				_ = cmds[j].Wait()
			}
			return fmt.Errorf("starting %s: %w", p.stages[i].Name, err)
		}
	}

	// Wait on every stage concurrently; waiting in order would block on an
	// upstream producer that never notices its consumer died.
	var wg sync.WaitGroup
	errs := make([]error, len(cmds))
	for i, cmd := range cmds {
		wg.Add(1)
		go func(i int, cmd *exec.Cmd) {
			defer wg.Done()
			if err := cmd.Wait(); err != nil {
				errs[i] = err
				cancel()
			}
		}(i, cmd)
	}
	wg.Wait()

	return p.attribute(errs, stderrs)
}

// attribute picks the stage to blame for a failed run. A dying consumer
// kills its producers with SIGPIPE (or the cancel kills them outright), so
// signal deaths are reported only when no stage failed on its own.
func (p *Pipeline) attribute(errs []error, stderrs []*tailBuffer) error {
	var fallback error
	for i, err := range errs {
		if err == nil {
			continue
		}
		if fallback == nil {
			fallback = stageError(p.stages[i].Name, err, stderrs[i].String())
		}
		if !signaled(err) {
			return stageError(p.stages[i].Name, err, stderrs[i].String())
		}
	}
	return fallback
}

// signaled reports whether the process died from a signal rather than
// exiting with its own status
func signaled(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	return ok && status.Signaled()
}

// stageError formats a stage failure with a tail of its stderr output
func stageError(name string, err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return fmt.Errorf("pipeline stage %s: %w", name, err)
	}
	return fmt.Errorf("pipeline stage %s: %w\nstderr: %s", name, err, stderr)
}

// tailBuffer keeps the last limit bytes written to it
type tailBuffer struct {
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.limit {
		t.buf = t.buf[len(t.buf)-t.limit:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
