package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
)

const genericFocus = "the relevant concept"

var fallbackHints = map[int]string{
	1: "Revisit the core idea behind %s before trying again.",
	2: "Find the rule in the reference outline (%s) that your answer does not follow.",
	3: "Work through the reference outline (%s) step by step and locate the first step where your answer departs from it.",
}

// FallbackClassifier labels every answer as a procedural error and derives the explanation and
// hint from the question's knowledge points and reference outline. It never fails and makes no
// network calls.
type FallbackClassifier struct{}

func NewFallbackClassifier() *FallbackClassifier {
	return &FallbackClassifier{}
}

func (FallbackClassifier) Classify(_ context.Context, in Input) (*Result, error) {
	return Fallback(in), nil
}

// Fallback is the deterministic analysis of in.
func Fallback(in Input) *Result {
	level := ClampLevel(in.HintLevel)
	points := fallbackPoints(in)
	focus := strings.Join(points, ", ")

	outline := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(in.ReferenceOutline), "."))
	if outline == "" {
		outline = focus
	}

	var hint string
	if level == 1 {
		hint = fmt.Sprintf(fallbackHints[1], focus)
	} else {
		hint = fmt.Sprintf(fallbackHints[level], outline)
	}

	r := &Result{
		ErrorType:       ProceduralError,
		Explanation:     fmt.Sprintf("Your answer does not follow the expected procedure for %s.", focus),
		Hint:            hint,
		HintLevel:       level,
		KnowledgePoints: points,
		Source:          models.AnalysisSourceFallback,
	}
	r.Raw, _ = json.Marshal(map[string]any{
		"rule":             "fallback",
		"error_type":       r.ErrorType,
		"explanation":      r.Explanation,
		"hint":             r.Hint,
		"hint_level":       r.HintLevel,
		"knowledge_points": r.KnowledgePoints,
	})
	return r
}

func fallbackPoints(in Input) []string {
	var points []string
	for _, p := range in.KnowledgePoints {
		if p = strings.TrimSpace(p); p != "" {
			points = append(points, p)
		}
	}
	if len(points) > 0 {
		return points
	}
	if topic := strings.TrimSpace(in.Topic); topic != "" {
		return []string{topic}
	}
	return []string{genericFocus}
}
