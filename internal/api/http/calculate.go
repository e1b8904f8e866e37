package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/mind-engage/cetscore/internal/score"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cet_tier", func(fl validator.FieldLevel) bool {
		_, err := score.ParseTier(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("cet_difficulty", func(fl validator.FieldLevel) bool {
		_, err := score.ParseDifficulty(fl.Field().String())
		return err == nil
	})
	return v
}

// calcRequest is the stateless counterpart of a session. Raw scores accept
// numbers or strings and are clamped, never rejected.
type calcRequest struct {
	Tier                string         `json:"tier" validate:"required,cet_tier"`
	ListeningDifficulty string         `json:"listening_difficulty" validate:"omitempty,cet_difficulty"`
	ReadingDifficulty   string         `json:"reading_difficulty" validate:"omitempty,cet_difficulty"`
	ListeningRaw        score.RawInput `json:"listening_raw"`
	ReadingRaw          score.RawInput `json:"reading_raw"`
	WritingRaw          score.RawInput `json:"writing_raw"`
}

func (c calcRequest) selection() (score.Selection, error) {
	sel := score.NewSelection()
	tier, err := score.ParseTier(c.Tier)
	if err != nil {
		return sel, err
	}
	if err := sel.SetTier(tier); err != nil {
		return sel, err
	}
	for sec, in := range map[score.Section]string{
		score.Listening: c.ListeningDifficulty,
		score.Reading:   c.ReadingDifficulty,
	} {
		if in == "" {
			continue
		}
		d, err := score.ParseDifficulty(in)
		if err != nil {
			return sel, err
		}
		if err := sel.SetDifficulty(sec, d); err != nil {
			return sel, err
		}
	}
	sel.SetRawInput(score.Listening, string(c.ListeningRaw))
	sel.SetRawInput(score.Reading, string(c.ReadingRaw))
	sel.SetRawInput(score.Writing, string(c.WritingRaw))
	return sel, nil
}

// POST /calculate
func CalculateHandler(ds *score.Dataset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req calcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sel, err := req.selection()
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, score.NewReport(sel, ds))
	}
}

// GET /feedback?total=438
func FeedbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := strconv.Atoi(r.URL.Query().Get("total"))
		if err != nil {
			http.Error(w, "total must be an integer", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total":         total,
			"feedback":      score.Feedback(total),
			"passing_score": score.PassingScore,
		})
	}
}
