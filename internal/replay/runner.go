package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/formsense/repcoach/internal/exercise"
	"github.com/formsense/repcoach/internal/pose"
	"github.com/formsense/repcoach/internal/rep"
)

// Result captures one replayed session.
type Result struct {
	Script  string
	Angles  []float64
	States  []rep.State
	Events  []rep.Event
	Summary rep.Summary
}

// Run replays a script through a fresh processor for the profile, driving the
// processor's clock with simulated time stepped by the script's frame
// interval.
func Run(p exercise.Profile, script Script) (*Result, error) {
	proc, err := rep.NewProcessor(p)
	if err != nil {
		return nil, err
	}

	now := time.Unix(0, 0)
	proc.Clock = func() time.Time { return now }
	proc.State = rep.NewSessionState(now)

	g := NewGenerator(p.Exercise)
	res := &Result{Script: script.Name, Angles: script.Angles}

	for _, angle := range script.Angles {
		now = now.Add(script.FrameInterval)
		_, ev := proc.Process(g.Frame(angle))
		res.States = append(res.States, proc.State.CurrState)
		if ev != nil {
			res.Events = append(res.Events, *ev)
		}
	}
	res.Summary = rep.Summarize(proc.State.Reps)
	return res, nil
}

// Recording is a landmark log captured from a live session, replayable
// offline.
type Recording struct {
	Exercise exercise.Exercise `json:"exercise"`
	Level    exercise.Level    `json:"level"`
	Interval string            `json:"interval"`
	Frames   []pose.Frame      `json:"frames"`
}

// LoadRecording reads a JSON landmark log.
func LoadRecording(path string) (*Recording, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("recording must have .json extension, got %q", ext)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}
	var rec Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse recording JSON: %w", err)
	}
	if len(rec.Frames) == 0 {
		return nil, fmt.Errorf("recording has no frames")
	}
	return &rec, nil
}

// RunRecording replays a captured landmark log through a fresh processor.
func RunRecording(rec *Recording) (*Result, error) {
	p, err := exercise.Lookup(rec.Exercise, rec.Level)
	if err != nil {
		return nil, err
	}
	proc, err := rep.NewProcessor(p)
	if err != nil {
		return nil, err
	}

	interval := 33 * time.Millisecond
	if rec.Interval != "" {
		d, err := time.ParseDuration(rec.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid interval: %w", err)
		}
		interval = d
	}

	now := time.Unix(0, 0)
	proc.Clock = func() time.Time { return now }
	proc.State = rep.NewSessionState(now)

	res := &Result{Script: "recording"}
	for _, f := range rec.Frames {
		now = now.Add(interval)
		_, ev := proc.Process(f)
		res.States = append(res.States, proc.State.CurrState)
		if ev != nil {
			res.Events = append(res.Events, *ev)
		}
	}
	res.Summary = rep.Summarize(proc.State.Reps)
	return res, nil
}
