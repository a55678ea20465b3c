package drafts

import (
	"math"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
)

var difficultyWords = map[string]int{
	"easy":   1,
	"medium": 3,
	"hard":   5,
}

func normalize(rec record) models.QuestionDraft {
	d := models.QuestionDraft{
		ID:               strings.TrimSpace(stringOf(rec["id"])),
		Stem:             strings.TrimSpace(stringOf(rec["stem"])),
		Type:             models.QuestionType(strings.ToLower(strings.TrimSpace(stringOf(rec["type"])))),
		Options:          optionsOf(rec["options"]),
		CorrectAnswer:    stringOf(rec["correct_answer"]),
		Tolerance:        floatOf(rec["tolerance"]),
		Topic:            strings.TrimSpace(stringOf(rec["topic"])),
		Difficulty:       difficultyOf(rec["difficulty"]),
		KnowledgePoints:  listOf(rec["knowledge_points"]),
		ReferenceOutline: strings.TrimSpace(stringOf(rec["reference_outline"])),
	}
	if d.Type == "" {
		d.Type = models.ShortAnswer
	}
	if group := strings.TrimSpace(stringOf(rec["isomorphic_group"])); group != "" {
		d.IsomorphicGroup = &group
	}

	if d.Type == models.MultipleChoice {
		d.CorrectAnswer = strings.TrimSpace(d.CorrectAnswer)
		for _, opt := range d.Options {
			if opt.Text == d.CorrectAnswer && opt.ID != d.CorrectAnswer {
				d.CorrectAnswer = opt.ID
				break
			}
		}
	}
	return d
}

// optionID labels the i-th option A..Z, then by number.
func optionID(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return strconv.Itoa(i + 1)
}

// optionsOf accepts a list of option objects, a list of plain texts, or the
// spreadsheet form "A:text|B:text".
func optionsOf(v any) []models.Option {
	var options []models.Option
	switch v := v.(type) {
	case []any:
		for i, entry := range v {
			switch entry := entry.(type) {
			case map[string]any:
				id := strings.TrimSpace(stringOf(entry["id"]))
				if id == "" {
					id = optionID(i)
				}
				options = append(options, models.Option{ID: id, Text: stringOf(entry["text"])})
			default:
				options = append(options, models.Option{ID: optionID(i), Text: stringOf(entry)})
			}
		}
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		for i, part := range strings.Split(v, "|") {
			id, text, found := strings.Cut(part, ":")
			if !found {
				id, text = optionID(i), part
			}
			options = append(options, models.Option{ID: strings.TrimSpace(id), Text: strings.TrimSpace(text)})
		}
	}
	return options
}

func difficultyOf(v any) int {
	switch v := v.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		if n, ok := difficultyWords[s]; ok {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
	}
	return 0
}

func floatOf(v any) *float64 {
	var f float64
	switch v := v.(type) {
	case int:
		f = float64(v)
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// listOf accepts a list or a comma-separated string and drops blank entries.
func listOf(v any) []string {
	var parts []string
	switch v := v.(type) {
	case []any:
		for _, entry := range v {
			parts = append(parts, stringOf(entry))
		}
	case string:
		parts = strings.Split(v, ",")
	}

	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func stringOf(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
