package score

import "fmt"

type (
	curve        [MaxRawListening + 1]int
	writingCurve [MaxRawWriting + 1]int
)

type curveSet struct {
	easy, medium, hard curve
}

func (c *curveSet) get(d Difficulty) ([]int, bool) {
	switch d {
	case Easy:
		return c.easy[:], true
	case Medium:
		return c.medium[:], true
	case Hard:
		return c.hard[:], true
	}
	return nil, false
}

type scoreTable struct {
	listening curveSet
	reading   curveSet
	writing   writingCurve
}

// Dataset holds the scale curves for both tiers. It has no mutators; the
// exported accessors hand out copies.
type Dataset struct {
	cet4 scoreTable
	cet6 scoreTable
}

// Default returns the built-in reference dataset.
func Default() *Dataset { return &defaultDataset }

func (d *Dataset) table(t Tier) (*scoreTable, bool) {
	switch t {
	case CET4:
		return &d.cet4, true
	case CET6:
		return &d.cet6, true
	}
	return nil, false
}

// lookup returns the backing slice without copying. Callers inside the
// package must not write through it.
func (d *Dataset) lookup(t Tier, s Section, diff Difficulty) ([]int, bool) {
	tbl, ok := d.table(t)
	if !ok {
		return nil, false
	}
	switch s {
	case Listening:
		return tbl.listening.get(diff)
	case Reading:
		return tbl.reading.get(diff)
	case Writing:
		return tbl.writing[:], true
	}
	return nil, false
}

// Section returns a copy of the scale curve for the given tier and section.
// The difficulty is ignored for writing.
func (d *Dataset) Section(t Tier, s Section, diff Difficulty) ([]int, error) {
	seq, ok := d.lookup(t, s, diff)
	if !ok {
		return nil, fmt.Errorf("%s/%s/%s: %w", t, s, diff, ErrUnknownCombination)
	}
	out := make([]int, len(seq))
	copy(out, seq)
	return out, nil
}

// Calculate maps a selection to scaled scores with this dataset.
func (d *Dataset) Calculate(sel Selection) Result {
	l := d.scaleSection(sel.Tier, Listening, sel.ListeningDifficulty, sel.ListeningRaw)
	r := d.scaleSection(sel.Tier, Reading, sel.ReadingDifficulty, sel.ReadingRaw)
	w := d.scaleSection(sel.Tier, Writing, "", sel.WritingRaw)
	return Result{
		Listening: l,
		Reading:   r,
		Writing:   w,
		Total:     l + r + w,
	}
}

// scaleSection degrades to 0 when the combination is missing.
func (d *Dataset) scaleSection(t Tier, s Section, diff Difficulty, raw int) int {
	seq, ok := d.lookup(t, s, diff)
	if !ok {
		return 0
	}
	return ScaleScore(seq, ClampRaw(s, raw))
}
