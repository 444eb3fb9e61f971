// Command repsim replays a recorded or synthetic landmark session offline:
// it prints the discrete events and session summary, and optionally writes an
// HTML chart of the driving angle per frame.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/formsense/repcoach/internal/exercise"
	"github.com/formsense/repcoach/internal/replay"
)

var (
	exerciseName = flag.String("exercise", "leg-raise", "exercise: squat or leg-raise")
	levelName    = flag.String("level", "beginner", "level: beginner or pro")
	scriptName   = flag.String("script", "correct-rep", "synthetic script: correct-rep, shallow-rep or short-hold")
	recording    = flag.String("recording", "", "replay a recorded landmark log (JSON) instead of a script")
	overrides    = flag.String("overrides", "", "threshold overrides file (JSON) applied to the profile")
	interval     = flag.Duration("interval", 33*time.Millisecond, "frame interval for synthetic scripts")
	chartPath    = flag.String("chart", "", "write an HTML angle chart to this path")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.Fatalf("repsim: %v", err)
	}
}

func run() error {
	if *recording != "" {
		rec, err := replay.LoadRecording(*recording)
		if err != nil {
			return err
		}
		res, err := replay.RunRecording(rec)
		if err != nil {
			return err
		}
		report(res)
		return nil
	}

	profile, err := exercise.Lookup(exercise.Exercise(*exerciseName), exercise.Level(*levelName))
	if err != nil {
		return err
	}
	if *overrides != "" {
		ov, err := exercise.LoadOverrides(*overrides)
		if err != nil {
			return err
		}
		profile, err = ov.Apply(profile)
		if err != nil {
			return err
		}
	}

	var script replay.Script
	found := false
	for _, s := range replay.Scripts(profile, *interval) {
		if s.Name == *scriptName {
			script = s
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown script %q for %s/%s", *scriptName, profile.Exercise, profile.Level)
	}

	res, err := replay.Run(profile, script)
	if err != nil {
		return err
	}
	report(res)

	if *chartPath != "" {
		f, err := os.Create(*chartPath)
		if err != nil {
			return fmt.Errorf("failed to create chart file: %w", err)
		}
		defer f.Close()
		if err := replay.WriteAngleChart(f, profile, res); err != nil {
			return fmt.Errorf("failed to render chart: %w", err)
		}
		fmt.Printf("chart written to %s\n", *chartPath)
	}
	return nil
}

func report(res *replay.Result) {
	fmt.Printf("script %s: %d frames\n", res.Script, len(res.States))
	for i, ev := range res.Events {
		if ev.Count > 0 {
			fmt.Printf("  event %d: %s (total %d)\n", i+1, ev.Kind, ev.Count)
		} else {
			fmt.Printf("  event %d: %s\n", i+1, ev.Kind)
		}
	}
	sum := res.Summary
	fmt.Printf("summary: %d attempts, %d correct, %d incorrect, mean range %.1f deg, mean hold %s\n",
		sum.Attempts, sum.Correct, sum.Incorrect, sum.MeanRange, sum.MeanHold)
}
