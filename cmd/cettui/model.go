package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mind-engage/cetscore/internal/score"
)

type theme struct {
	accent lipgloss.Style
	header lipgloss.Style
	bar    progress.Model
}

func newTheme(color string) theme {
	return theme{
		accent: lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true),
		header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color(color)).
			Padding(0, 2),
		bar: progress.New(progress.WithSolidFill(color), progress.WithWidth(30), progress.WithoutPercentage()),
	}
}

// CET4 blue, CET6 emerald.
var themes = map[score.Tier]theme{
	score.CET4: newTheme("#2563eb"),
	score.CET6: newTheme("#059669"),
}

var (
	dimText   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	labelText = lipgloss.NewStyle().Width(11)
)

type model struct {
	sel    score.Selection
	ds     *score.Dataset
	result score.Result

	focus int // index into score.Sections
	input textinput.Model
}

func initialModel(sel score.Selection) model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 3
	ti.Width = 4
	ti.Focus()

	m := model{sel: sel, ds: score.Default(), input: ti}
	m.sel.Normalize()
	m.syncInput()
	m.recompute()
	return m
}

func (m model) section() score.Section { return score.Sections[m.focus] }

func (m *model) recompute() { m.result = m.ds.Calculate(m.sel) }

// syncInput shows the stored raw score of the focused section.
func (m *model) syncInput() {
	m.input.SetValue(strconv.Itoa(m.sel.Raw(m.section())))
	m.input.CursorEnd()
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	sec := m.section()
	switch key.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit
	case "tab", "down":
		m.focus = (m.focus + 1) % len(score.Sections)
		m.syncInput()
	case "shift+tab", "up":
		m.focus = (m.focus + len(score.Sections) - 1) % len(score.Sections)
		m.syncInput()
	case "left":
		m.sel.SetRaw(sec, m.sel.Raw(sec)-1)
		m.syncInput()
	case "right":
		m.sel.SetRaw(sec, m.sel.Raw(sec)+1)
		m.syncInput()
	case "t":
		next := score.CET6
		if m.sel.Tier == score.CET6 {
			next = score.CET4
		}
		_ = m.sel.SetTier(next)
	case "e", "m", "h":
		if sec.HasDifficulty() {
			d := map[string]score.Difficulty{"e": score.Easy, "m": score.Medium, "h": score.Hard}[key.String()]
			_ = m.sel.SetDifficulty(sec, d)
		}
	case "r":
		m.sel.Reset()
		m.syncInput()
	default:
		if key.Type != tea.KeyBackspace && !(key.Type == tea.KeyRunes && isDigits(key.Runes)) {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.sel.SetRawInput(sec, m.input.Value())
		if v := m.input.Value(); v != "" && v != strconv.Itoa(m.sel.Raw(sec)) {
			m.syncInput()
		}
		m.recompute()
		return m, cmd
	}
	m.recompute()
	return m, nil
}

func isDigits(rs []rune) bool {
	for _, r := range rs {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(rs) > 0
}

func (m model) View() string {
	th := themes[m.sel.Tier]
	band := score.Feedback(m.result.Total)

	var b strings.Builder
	b.WriteString(th.header.Render(fmt.Sprintf("%s  predicted total %d", m.sel.Tier, m.result.Total)))
	b.WriteString("\n")
	b.WriteString(th.accent.Render(band.Message))
	b.WriteString(dimText.Render(fmt.Sprintf("  (pass %d)", score.PassingScore)))
	b.WriteString("\n\n")

	scaled := map[score.Section]int{
		score.Listening: m.result.Listening,
		score.Reading:   m.result.Reading,
		score.Writing:   m.result.Writing,
	}
	for i, sec := range score.Sections {
		cursor := "  "
		if i == m.focus {
			cursor = th.accent.Render("> ")
		}
		raw := strconv.Itoa(m.sel.Raw(sec))
		if i == m.focus {
			raw = m.input.View()
		}
		pct := float64(m.sel.Raw(sec)) / float64(sec.MaxRaw())
		fmt.Fprintf(&b, "%s%s %s %s/%d  → %s\n",
			cursor,
			labelText.Render(string(sec)),
			th.bar.ViewAs(pct),
			raw, sec.MaxRaw(),
			th.accent.Render(strconv.Itoa(scaled[sec])),
		)
		if sec.HasDifficulty() {
			b.WriteString("    " + m.difficultyRow(th, sec) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimText.Render("tab/↑↓ section · ←/→ or digits raw · e/m/h difficulty · t tier · r reset · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m model) difficultyRow(th theme, sec score.Section) string {
	cur := m.sel.Difficulty(sec)
	parts := make([]string, 0, len(score.Difficulties))
	for _, d := range score.Difficulties {
		if d == cur {
			parts = append(parts, th.accent.Render("["+string(d)+"]"))
		} else {
			parts = append(parts, dimText.Render(" "+string(d)+" "))
		}
	}
	return strings.Join(parts, " ")
}
