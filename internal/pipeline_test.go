package internal

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestPipelineRun(t *testing.T) {
	pipeline := NewPipeline(false,
		Stage{Name: "producer", Path: "echo", Args: []string{"hello pipeline"}},
		Stage{Name: "passthrough", Path: "cat"},
	)

	var out bytes.Buffer
	if err := pipeline.Run(context.Background(), &out); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != "hello pipeline" {
		t.Errorf("output = %q, want %q", got, "hello pipeline")
	}
}

func TestPipelineStageFailure(t *testing.T) {
	pipeline := NewPipeline(false,
		Stage{Name: "producer", Path: "echo", Args: []string{"data"}},
		Stage{Name: "broken", Path: "false"},
	)

	var out bytes.Buffer
	err := pipeline.Run(context.Background(), &out)
	if err == nil {
		t.Fatal("pipeline with a failing stage should return an error")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error should name the failing stage, got: %v", err)
	}
}

func TestPipelineBlamesFailingConsumer(t *testing.T) {
	// The producer never finishes on its own; when the consumer exits
	// non-zero the producer dies of SIGPIPE or the cancel. The error must
	// name the consumer, not the producer's signal death.
	pipeline := NewPipeline(false,
		Stage{Name: "producer", Path: "sh", Args: []string{"-c", "while :; do echo data; done"}},
		Stage{Name: "consumer", Path: "sh", Args: []string{"-c", "exit 3"}},
	)

	var out bytes.Buffer
	err := pipeline.Run(context.Background(), &out)
	if err == nil {
		t.Fatal("pipeline with a failing consumer should return an error")
	}
	if !strings.Contains(err.Error(), "consumer") {
		t.Errorf("error should name the consumer stage, got: %v", err)
	}
	if strings.Contains(err.Error(), "producer") {
		t.Errorf("producer's pipe death should not be blamed, got: %v", err)
	}
}

func TestPipelineMissingExecutable(t *testing.T) {
	pipeline := NewPipeline(false,
		Stage{Name: "ghost", Path: "definitely-not-an-executable-4721"},
	)

	var out bytes.Buffer
	if err := pipeline.Run(context.Background(), &out); err == nil {
		t.Fatal("pipeline with an unresolvable stage should return an error")
	}
}

func TestPipelineEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := NewPipeline(false).Run(context.Background(), &out); err == nil {
		t.Fatal("empty pipeline should return an error")
	}
}

func TestPipelineCancellation(t *testing.T) {
	pipeline := NewPipeline(false,
		Stage{Name: "sleeper", Path: "sleep", Args: []string{"30"}},
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	var out bytes.Buffer
	start := time.Now()
	err := pipeline.Run(ctx, &out)
	if err == nil {
		t.Fatal("cancelled pipeline should return an error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took %v, expected prompt termination", elapsed)
	}
}

func TestTailBuffer(t *testing.T) {
	tail := &tailBuffer{limit: 8}
	for range 4 {
		if _, err := tail.Write([]byte("abcd")); err != nil {
			t.Fatal(err)
		}
	}
	if got := tail.String(); got != "abcdabcd" {
		t.Errorf("tail = %q, want last 8 bytes", got)
	}
}
