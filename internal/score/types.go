package score

import (
	"errors"
	"fmt"
	"strings"
)

// Tier is the exam level being scored.
type Tier string

const (
	CET4 Tier = "CET4"
	CET6 Tier = "CET6"
)

// Tiers lists every supported exam tier in display order.
var Tiers = []Tier{CET4, CET6}

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// DefaultDifficulty is what a fresh or reset selection uses for listening and reading.
const DefaultDifficulty = Medium

var Difficulties = []Difficulty{Easy, Medium, Hard}

type Section string

const (
	Listening Section = "listening"
	Reading   Section = "reading"
	Writing   Section = "writing"
)

var Sections = []Section{Listening, Reading, Writing}

const (
	MaxRawListening = 35
	MaxRawReading   = 35
	MaxRawWriting   = 30
)

// ErrUnknownCombination is returned when a tier/section/difficulty triple is not in the dataset.
var ErrUnknownCombination = errors.New("unknown tier/section/difficulty combination")

// MaxRaw is the inclusive upper bound of raw scores for the section; 0 for unknown sections.
func (s Section) MaxRaw() int {
	switch s {
	case Listening:
		return MaxRawListening
	case Reading:
		return MaxRawReading
	case Writing:
		return MaxRawWriting
	}
	return 0
}

// HasDifficulty reports whether the section is scored on a per-difficulty curve.
func (s Section) HasDifficulty() bool { return s == Listening || s == Reading }

func ParseTier(s string) (Tier, error) {
	switch t := Tier(strings.ToUpper(strings.TrimSpace(s))); t {
	case CET4, CET6:
		return t, nil
	}
	return "", fmt.Errorf("tier %q: %w", s, ErrUnknownCombination)
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return "", fmt.Errorf("difficulty %q: %w", s, ErrUnknownCombination)
}

func ParseSection(s string) (Section, error) {
	switch sec := Section(strings.ToLower(strings.TrimSpace(s))); sec {
	case Listening, Reading, Writing:
		return sec, nil
	}
	return "", fmt.Errorf("section %q: %w", s, ErrUnknownCombination)
}
