package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/mind-engage/cetscore/internal/score"
)

type options struct {
	tier          string
	listeningDiff string
	readingDiff   string
	listening     string
	reading       string
	writing       string
	once          bool
	format        string
}

func main() {
	var o options
	flag.StringVar(&o.tier, "tier", "CET4", "exam tier: CET4 or CET6")
	flag.StringVar(&o.listeningDiff, "ld", "Medium", "listening difficulty: Easy, Medium or Hard")
	flag.StringVar(&o.readingDiff, "rd", "Medium", "reading difficulty: Easy, Medium or Hard")
	flag.StringVar(&o.listening, "l", "0", "listening raw score (0-35)")
	flag.StringVar(&o.reading, "r", "0", "reading raw score (0-35)")
	flag.StringVar(&o.writing, "w", "0", "writing/translation raw score (0-30)")
	flag.BoolVar(&o.once, "once", false, "print one calculation and exit")
	flag.StringVar(&o.format, "format", "json", "output format for -once: json or yaml")
	flag.Parse()

	sel, err := o.selection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if o.once {
		if err := printReport(os.Stdout, score.NewReport(sel, nil), o.format); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	p := tea.NewProgram(initialModel(sel))
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

// selection builds the starting Selection from flags. Raw scores are clamped
// like any other input; enumerations must name a known value.
func (o options) selection() (score.Selection, error) {
	sel := score.NewSelection()
	tier, err := score.ParseTier(o.tier)
	if err != nil {
		return sel, err
	}
	_ = sel.SetTier(tier)
	for sec, in := range map[score.Section]string{score.Listening: o.listeningDiff, score.Reading: o.readingDiff} {
		d, err := score.ParseDifficulty(in)
		if err != nil {
			return sel, err
		}
		_ = sel.SetDifficulty(sec, d)
	}
	sel.SetRawInput(score.Listening, o.listening)
	sel.SetRawInput(score.Reading, o.reading)
	sel.SetRawInput(score.Writing, o.writing)
	return sel, nil
}

func printReport(w io.Writer, rep score.Report, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
