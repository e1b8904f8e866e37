package score

import "fmt"

// Selection is the mutable input state of one scoring session. Raw scores
// stay within their section bounds as long as they are changed through the
// setters.
type Selection struct {
	Tier                Tier       `json:"tier" yaml:"tier"`
	ListeningDifficulty Difficulty `json:"listening_difficulty" yaml:"listening_difficulty"`
	ReadingDifficulty   Difficulty `json:"reading_difficulty" yaml:"reading_difficulty"`
	ListeningRaw        int        `json:"listening_raw" yaml:"listening_raw"`
	ReadingRaw          int        `json:"reading_raw" yaml:"reading_raw"`
	WritingRaw          int        `json:"writing_raw" yaml:"writing_raw"`
}

func NewSelection() Selection {
	return Selection{
		Tier:                CET4,
		ListeningDifficulty: DefaultDifficulty,
		ReadingDifficulty:   DefaultDifficulty,
	}
}

func (s *Selection) SetTier(t Tier) error {
	if _, ok := Default().table(t); !ok {
		return fmt.Errorf("tier %q: %w", t, ErrUnknownCombination)
	}
	s.Tier = t
	return nil
}

// SetDifficulty changes the curve for listening or reading. Writing has a
// single fixed curve and rejects the call.
func (s *Selection) SetDifficulty(sec Section, d Difficulty) error {
	switch d {
	case Easy, Medium, Hard:
	default:
		return fmt.Errorf("difficulty %q: %w", d, ErrUnknownCombination)
	}
	switch sec {
	case Listening:
		s.ListeningDifficulty = d
	case Reading:
		s.ReadingDifficulty = d
	default:
		return fmt.Errorf("section %q has no difficulty: %w", sec, ErrUnknownCombination)
	}
	return nil
}

// SetRaw stores v clamped to the section bounds. Unknown sections are ignored.
func (s *Selection) SetRaw(sec Section, v int) {
	v = ClampRaw(sec, v)
	switch sec {
	case Listening:
		s.ListeningRaw = v
	case Reading:
		s.ReadingRaw = v
	case Writing:
		s.WritingRaw = v
	}
}

// SetRawInput applies the same policy as SetRaw to unparsed user input.
func (s *Selection) SetRawInput(sec Section, in string) {
	s.SetRaw(sec, ParseRaw(sec, in))
}

func (s Selection) Raw(sec Section) int {
	switch sec {
	case Listening:
		return s.ListeningRaw
	case Reading:
		return s.ReadingRaw
	case Writing:
		return s.WritingRaw
	}
	return 0
}

func (s Selection) Difficulty(sec Section) Difficulty {
	switch sec {
	case Listening:
		return s.ListeningDifficulty
	case Reading:
		return s.ReadingDifficulty
	}
	return ""
}

// Reset zeroes every raw score and puts both difficulties back to Medium.
// The tier is left alone.
func (s *Selection) Reset() {
	s.ListeningRaw, s.ReadingRaw, s.WritingRaw = 0, 0, 0
	s.ListeningDifficulty, s.ReadingDifficulty = DefaultDifficulty, DefaultDifficulty
}

// Normalize repairs a selection that was built without the setters, e.g.
// decoded from storage: raw scores are clamped and unknown enums fall back
// to their defaults.
func (s *Selection) Normalize() {
	if _, ok := Default().table(s.Tier); !ok {
		s.Tier = CET4
	}
	if !validDifficulty(s.ListeningDifficulty) {
		s.ListeningDifficulty = DefaultDifficulty
	}
	if !validDifficulty(s.ReadingDifficulty) {
		s.ReadingDifficulty = DefaultDifficulty
	}
	s.ListeningRaw = ClampRaw(Listening, s.ListeningRaw)
	s.ReadingRaw = ClampRaw(Reading, s.ReadingRaw)
	s.WritingRaw = ClampRaw(Writing, s.WritingRaw)
}

func validDifficulty(d Difficulty) bool { return d == Easy || d == Medium || d == Hard }
