package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"github.com/mind-engage/cetscore/internal/score"
)

type sectionDoc struct {
	Section score.Section              `json:"section" yaml:"section"`
	MaxRaw  int                        `json:"max_raw" yaml:"max_raw"`
	Curves  map[score.Difficulty][]int `json:"curves,omitempty" yaml:"curves,omitempty"`
	Curve   []int                      `json:"curve,omitempty" yaml:"curve,omitempty,flow"`
}

type tierDoc struct {
	Tier     score.Tier   `json:"tier" yaml:"tier"`
	Sections []sectionDoc `json:"sections" yaml:"sections"`
}

type tablesDoc struct {
	PassingScore      int              `json:"passing_score" yaml:"passing_score"`
	DefaultDifficulty score.Difficulty `json:"default_difficulty" yaml:"default_difficulty"`
	Tiers             []tierDoc        `json:"tiers" yaml:"tiers"`
	Feedback          []score.Band     `json:"feedback" yaml:"feedback"`
}

func buildTablesDoc(ds *score.Dataset) (tablesDoc, error) {
	doc := tablesDoc{
		PassingScore:      score.PassingScore,
		DefaultDifficulty: score.DefaultDifficulty,
		Feedback:          score.Bands,
	}
	for _, t := range score.Tiers {
		td := tierDoc{Tier: t}
		for _, sec := range score.Sections {
			sd := sectionDoc{Section: sec, MaxRaw: sec.MaxRaw()}
			if !sec.HasDifficulty() {
				seq, err := ds.Section(t, sec, "")
				if err != nil {
					return tablesDoc{}, err
				}
				sd.Curve = seq
			} else {
				sd.Curves = map[score.Difficulty][]int{}
				for _, d := range score.Difficulties {
					seq, err := ds.Section(t, sec, d)
					if err != nil {
						return tablesDoc{}, err
					}
					sd.Curves[d] = seq
				}
			}
			td.Sections = append(td.Sections, sd)
		}
		doc.Tiers = append(doc.Tiers, td)
	}
	return doc, nil
}

// GET /tables[?format=yaml]
func TablesHandler(ds *score.Dataset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := buildTablesDoc(ds)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		if strings.EqualFold(r.URL.Query().Get("format"), "yaml") {
			out, err := yaml.Marshal(doc)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(out)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

// GET /tables/{tier}/{section}?difficulty=Hard
func SectionHandler(ds *score.Dataset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tier, err := score.ParseTier(chi.URLParam(r, "tier"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		sec, err := score.ParseSection(chi.URLParam(r, "section"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		var diff score.Difficulty
		if sec.HasDifficulty() {
			diff = score.DefaultDifficulty
			if q := r.URL.Query().Get("difficulty"); q != "" {
				if diff, err = score.ParseDifficulty(q); err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
			}
		}
		seq, err := ds.Section(tier, sec, diff)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"tier":       tier,
			"section":    sec,
			"difficulty": diff,
			"max_raw":    sec.MaxRaw(),
			"curve":      seq,
		})
	}
}
