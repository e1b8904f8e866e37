package score

// Result is the per-section scaled score and their sum. It is always derived
// from a Selection and never stored as a source of truth.
type Result struct {
	Listening int `json:"listening" yaml:"listening"`
	Reading   int `json:"reading" yaml:"reading"`
	Writing   int `json:"writing" yaml:"writing"`
	Total     int `json:"total" yaml:"total"`
}

// ScaleScore returns seq[raw] with raw clamped into the sequence bounds.
// An empty sequence scores 0.
func ScaleScore(seq []int, raw int) int {
	if len(seq) == 0 {
		return 0
	}
	if raw < 0 {
		raw = 0
	}
	if raw > len(seq)-1 {
		raw = len(seq) - 1
	}
	return seq[raw]
}

// Calculate scores sel against ds, or against the default dataset when ds is nil.
func Calculate(sel Selection, ds *Dataset) Result {
	if ds == nil {
		ds = Default()
	}
	return ds.Calculate(sel)
}

// Report bundles everything a presentation layer shows for one selection.
type Report struct {
	Selection    Selection `json:"selection" yaml:"selection"`
	Result       Result    `json:"result" yaml:"result"`
	Feedback     Band      `json:"feedback" yaml:"feedback"`
	PassingScore int       `json:"passing_score" yaml:"passing_score"`
}

func NewReport(sel Selection, ds *Dataset) Report {
	res := Calculate(sel, ds)
	return Report{
		Selection:    sel,
		Result:       res,
		Feedback:     Feedback(res.Total),
		PassingScore: PassingScore,
	}
}
