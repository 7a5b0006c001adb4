package main

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ShayCichocki/breathcheck/internal/config"
	"github.com/ShayCichocki/breathcheck/internal/forms"
	"github.com/ShayCichocki/breathcheck/internal/sequencer"
	"github.com/ShayCichocki/breathcheck/internal/trends"
	"github.com/ShayCichocki/breathcheck/pkg/models"
)

// syncBuffer is a bytes.Buffer safe for the sequencer's timer goroutines. It
// counts writes that overlap, which a plain writer would race on.
type syncBuffer struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	writing  atomic.Bool
	overlaps atomic.Int32
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	if b.writing.CompareAndSwap(false, true) {
		defer b.writing.Store(false)
	} else {
		b.overlaps.Add(1)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func quickPhases() []sequencer.Phase {
	return []sequencer.Phase{
		{Title: "retrieving", Subtitle: "hold on", Duration: 20 * time.Millisecond},
		{Title: "analyzing", Duration: 20 * time.Millisecond},
		{Title: "preparing", Duration: 20 * time.Millisecond},
	}
}

func baseRunOptions(out *syncBuffer) runOptions {
	return runOptions{
		Phases:         quickPhases(),
		DefaultOutcome: models.OutcomeSuccess,
		Score:          87,
		Improvement:    5,
		Out:            out,
	}
}

// =============================================================================
// run
// =============================================================================

func TestRunOnce_Completes(t *testing.T) {
	out := &syncBuffer{}
	result, err := runOnce(context.Background(), sequencer.New(), baseRunOptions(out))
	if err != nil {
		t.Fatalf("runOnce: %v", err)
	}

	if result.Outcome != models.OutcomeSuccess || result.Forced {
		t.Errorf("result = %+v, want unforced success", result)
	}
	if result.Score != 87 {
		t.Errorf("Score = %d, want 87", result.Score)
	}
	if result.RunID == "" {
		t.Error("RunID should be set")
	}

	text := out.String()
	for _, want := range []string{"[1/3] retrieving", "[2/3] analyzing", "[3/3] preparing", "hold on", "Result:"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Index(text, "[1/3]") > strings.Index(text, "[3/3]") {
		t.Error("phases printed out of order")
	}
}

func TestRunOnce_DefaultFailure(t *testing.T) {
	out := &syncBuffer{}
	opts := baseRunOptions(out)
	opts.DefaultOutcome = models.OutcomeFailure

	result, err := runOnce(context.Background(), sequencer.New(), opts)
	if err != nil {
		t.Fatalf("runOnce: %v", err)
	}
	if result.Outcome != models.OutcomeFailure {
		t.Errorf("Outcome = %s, want failure", result.Outcome)
	}
	if result.Score != 0 {
		t.Errorf("Score = %d, want 0 on failure", result.Score)
	}
}

func TestRunOnce_Override(t *testing.T) {
	out := &syncBuffer{}
	opts := baseRunOptions(out)
	opts.Phases = []sequencer.Phase{
		{Title: "one", Duration: time.Second},
		{Title: "two", Duration: time.Second},
	}
	opts.Override = models.OutcomeFailure
	opts.OverrideAfter = 10 * time.Millisecond

	start := time.Now()
	result, err := runOnce(context.Background(), sequencer.New(), opts)
	if err != nil {
		t.Fatalf("runOnce: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("override should end the run early")
	}
	if result.Outcome != models.OutcomeFailure || !result.Forced {
		t.Errorf("result = %+v, want forced failure", result)
	}
	if strings.Contains(out.String(), "[2/2]") {
		t.Error("no phase should be reported after the override")
	}
}

func TestRunOnce_ContextCancelled(t *testing.T) {
	out := &syncBuffer{}
	opts := baseRunOptions(out)
	opts.Phases = []sequencer.Phase{{Title: "long", Duration: time.Minute}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	seq := sequencer.New()
	_, err := runOnce(ctx, seq, opts)
	if !errors.Is(err, errRunCancelled) {
		t.Fatalf("err = %v, want errRunCancelled", err)
	}
	if st := seq.State(); st.Status != sequencer.StatusCancelled {
		t.Errorf("Status = %s, want cancelled", st.Status)
	}
}

func TestRunOnce_InvalidPhases(t *testing.T) {
	out := &syncBuffer{}
	opts := baseRunOptions(out)
	opts.Phases = nil

	_, err := runOnce(context.Background(), sequencer.New(), opts)
	if !errors.Is(err, sequencer.ErrInvalidConfiguration) {
		t.Errorf("err = %v, want ErrInvalidConfiguration", err)
	}
}

func TestResolvePhases(t *testing.T) {
	cfg := config.Default()

	script, path, err := resolvePhases(cfg, "", 0)
	if err != nil {
		t.Fatalf("resolvePhases: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if len(script) != 3 || script[0].Duration != 7*time.Second {
		t.Errorf("default script = %+v, want the 7s/8s/5s breath test", script)
	}

	script, _, err = resolvePhases(cfg, "", 0.1)
	if err != nil {
		t.Fatalf("resolvePhases: %v", err)
	}
	if script[0].Duration != 700*time.Millisecond {
		t.Errorf("scaled duration = %s, want 700ms", script[0].Duration)
	}
}

func TestResolvePhases_File(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "phases.yaml")
	data := "phases:\n  - title: only\n    duration: 2s\n"
	if err := os.WriteFile(file, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Demo.PhasesFile = file
	cfg.Demo.Speed = 0.5

	script, path, err := resolvePhases(cfg, "", 0)
	if err != nil {
		t.Fatalf("resolvePhases: %v", err)
	}
	if path != file {
		t.Errorf("path = %q, want %q", path, file)
	}
	if len(script) != 1 || script[0].Duration != time.Second {
		t.Errorf("script = %+v, want one 1s phase", script)
	}

	if _, _, err := resolvePhases(cfg, filepath.Join(dir, "missing.yaml"), 0); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWatchAndRun_ReplaysOnChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "phases.yaml")
	write := func(title string) {
		data := "phases:\n  - title: " + title + "\n    duration: 10ms\n"
		if err := os.WriteFile(file, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("first")

	out := &syncBuffer{}
	opts := baseRunOptions(out)
	opts.Phases = []sequencer.Phase{{Title: "first", Duration: 10 * time.Millisecond}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchAndRun(ctx, file, 1, opts) }()

	waitFor(t, out, "Watching")
	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	write("second")
	waitFor(t, out, "[1/1] second")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchAndRun: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watchAndRun did not stop after cancel")
	}
}

func TestWatchAndRun_ReportsBadScriptFromLoop(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "phases.yaml")
	write := func(data string) {
		if err := os.WriteFile(file, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("phases:\n  - title: first\n    duration: 10ms\n")

	out := &syncBuffer{}
	opts := baseRunOptions(out)
	opts.Phases = []sequencer.Phase{{Title: "first", Duration: 10 * time.Millisecond}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchAndRun(ctx, file, 1, opts) }()

	waitFor(t, out, "Watching")
	time.Sleep(100 * time.Millisecond)
	write("phases: [\n")
	waitFor(t, out, "Ignoring")

	write("phases:\n  - title: second\n    duration: 10ms\n")
	waitFor(t, out, "[1/1] second")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchAndRun: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watchAndRun did not stop after cancel")
	}

	if n := out.overlaps.Load(); n != 0 {
		t.Errorf("expected output from one goroutine at a time, got %d overlapping writes", n)
	}
}

func TestReplaceLatest_KeepsNewest(t *testing.T) {
	ch := make(chan int, 1)
	replaceLatest(ch, 1)
	replaceLatest(ch, 2)

	if got := <-ch; got != 2 {
		t.Errorf("expected newest value 2, got %d", got)
	}
	select {
	case v := <-ch:
		t.Errorf("expected an empty channel, got %d", v)
	default:
	}
}

func waitFor(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in:\n%s", want, out.String())
}

// =============================================================================
// config
// =============================================================================

func TestConfigValues_RoundTrip(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"demo.speed", "0.25", "0.25"},
		{"demo.default_outcome", "FAILURE", "failure"},
		{"demo.score", "72", "72"},
		{"demo.improvement", "-3", "-3"},
		{"demo.phases_file", "/tmp/p.yaml", "/tmp/p.yaml"},
		{"tui.refresh_rate", "100ms", "100ms"},
		{"trends.default_period", "30d", "30"},
		{"logging.debug_file", "/tmp/debug.log", "/tmp/debug.log"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if err := setConfigValue(cfg, tt.key, tt.value); err != nil {
				t.Fatalf("setConfigValue: %v", err)
			}
			got, err := getConfigValue(cfg, tt.key)
			if err != nil {
				t.Fatalf("getConfigValue: %v", err)
			}
			if got != tt.want {
				t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfigValues_Errors(t *testing.T) {
	cfg := config.Default()

	if _, err := getConfigValue(cfg, "nope"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := setConfigValue(cfg, "demo.score", "lots"); err == nil {
		t.Error("expected error for non-numeric score")
	}
	if err := setConfigValue(cfg, "demo.default_outcome", "maybe"); err == nil {
		t.Error("expected error for unknown outcome")
	}
	if err := setConfigValue(cfg, "tui.refresh_rate", "fast"); err == nil {
		t.Error("expected error for bad duration")
	}
}

func TestConfigDisplay_NotSet(t *testing.T) {
	var out bytes.Buffer
	displayAllConfig(&out, config.Default())
	text := out.String()
	if !strings.Contains(text, "demo.phases_file: (not set)") {
		t.Errorf("output missing unset phases file:\n%s", text)
	}
	if strings.Count(text, "\n") != len(configKeys) {
		t.Errorf("got %d lines, want %d", strings.Count(text, "\n"), len(configKeys))
	}
}

// =============================================================================
// contact / trends
// =============================================================================

func TestSendContactRequest_Invalid(t *testing.T) {
	var out bytes.Buffer
	err := sendContactRequest(&out, forms.ContactRequest{Method: "Carrier Pigeon"})

	var verr *forms.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *forms.ValidationError", err)
	}
	if _, ok := verr.Fields[forms.FieldMethod]; !ok {
		t.Error("method should be flagged")
	}
	if _, ok := verr.Fields[forms.FieldReason]; !ok {
		t.Error("reason should be flagged")
	}
	if out.Len() != 0 {
		t.Error("nothing should be printed for an invalid request")
	}
}

func TestSendContactRequest_Valid(t *testing.T) {
	var out bytes.Buffer
	err := sendContactRequest(&out, forms.ContactRequest{Method: "Email", Reason: "Medication"})
	if err != nil {
		t.Fatalf("sendContactRequest: %v", err)
	}
	if !strings.Contains(out.String(), "Medium Priority") {
		t.Errorf("default urgency should be applied:\n%s", out.String())
	}
}

func TestPrintContactHistory(t *testing.T) {
	var out bytes.Buffer
	printContactHistory(&out)
	text := out.String()
	if !strings.Contains(text, "call 911") {
		t.Error("emergency notice missing")
	}
	if !strings.Contains(text, "Awaiting response") {
		t.Error("unanswered history entry should be marked")
	}
}

func TestPrintTrends(t *testing.T) {
	now := time.Date(2025, time.July, 3, 12, 0, 0, 0, time.UTC)
	series := trends.Generate(trends.Week, now, rand.New(rand.NewSource(3)))

	var out bytes.Buffer
	printTrends(&out, trends.Week, series)
	text := out.String()
	for _, want := range []string{"7 Days", "Average Score", "Best Score", "Improvement"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
