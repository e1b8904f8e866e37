package session

import (
	"fmt"

	"github.com/mind-engage/cetscore/internal/score"
)

// Patch is a partial change to a Selection. Nil fields are left alone.
type Patch struct {
	Tier                *string         `json:"tier,omitempty"`
	ListeningDifficulty *string         `json:"listening_difficulty,omitempty"`
	ReadingDifficulty   *string         `json:"reading_difficulty,omitempty"`
	ListeningRaw        *score.RawInput `json:"listening_raw,omitempty"`
	ReadingRaw          *score.RawInput `json:"reading_raw,omitempty"`
	WritingRaw          *score.RawInput `json:"writing_raw,omitempty"`
	Reset               bool            `json:"reset,omitempty"`
}

// Apply changes sel in place. Reset runs first so a patch can reset and set
// new values in one step. On error sel is unchanged.
func (p Patch) Apply(sel *score.Selection) error {
	next := *sel
	if p.Reset {
		next.Reset()
	}
	if p.Tier != nil {
		t, err := score.ParseTier(*p.Tier)
		if err != nil {
			return err
		}
		if err := next.SetTier(t); err != nil {
			return err
		}
	}
	if err := applyDifficulty(&next, score.Listening, p.ListeningDifficulty); err != nil {
		return err
	}
	if err := applyDifficulty(&next, score.Reading, p.ReadingDifficulty); err != nil {
		return err
	}
	for sec, in := range map[score.Section]*score.RawInput{
		score.Listening: p.ListeningRaw,
		score.Reading:   p.ReadingRaw,
		score.Writing:   p.WritingRaw,
	} {
		if in != nil {
			next.SetRaw(sec, in.For(sec))
		}
	}
	*sel = next
	return nil
}

func applyDifficulty(sel *score.Selection, sec score.Section, in *string) error {
	if in == nil {
		return nil
	}
	d, err := score.ParseDifficulty(*in)
	if err != nil {
		return fmt.Errorf("%s: %w", sec, err)
	}
	return sel.SetDifficulty(sec, d)
}

// Empty reports whether applying p would change nothing.
func (p Patch) Empty() bool {
	return !p.Reset && p.Tier == nil && p.ListeningDifficulty == nil && p.ReadingDifficulty == nil &&
		p.ListeningRaw == nil && p.ReadingRaw == nil && p.WritingRaw == nil
}
