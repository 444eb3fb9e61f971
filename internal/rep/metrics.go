package rep

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the resolved attempts of one session.
type Summary struct {
	Attempts  int           `json:"attempts"`
	Correct   int           `json:"correct"`
	Incorrect int           `json:"incorrect"`
	MeanRange float64       `json:"mean_range_deg"`
	MaxRange  float64       `json:"max_range_deg"`
	MeanHold  time.Duration `json:"mean_hold"`
	P90Hold   time.Duration `json:"p90_hold"`
}

// Summarize computes aggregate statistics over resolved rep attempts.
func Summarize(reps []RepResult) Summary {
	s := Summary{Attempts: len(reps)}
	if len(reps) == 0 {
		return s
	}

	ranges := make([]float64, 0, len(reps))
	holds := make([]float64, 0, len(reps))
	for _, r := range reps {
		if r.Correct {
			s.Correct++
		} else {
			s.Incorrect++
		}
		ranges = append(ranges, r.Range)
		holds = append(holds, r.Hold.Seconds())
		if r.Range > s.MaxRange {
			s.MaxRange = r.Range
		}
	}

	s.MeanRange = stat.Mean(ranges, nil)
	s.MeanHold = time.Duration(stat.Mean(holds, nil) * float64(time.Second))

	sort.Float64s(holds)
	s.P90Hold = time.Duration(stat.Quantile(0.9, stat.Empirical, holds, nil) * float64(time.Second))
	return s
}
