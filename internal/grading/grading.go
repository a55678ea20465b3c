// Package grading compares student answers against frozen questions. Every function here
// is pure: no I/O, no clocks, no randomness.
package grading

import (
	"math"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"golang.org/x/text/cases"
)

// toleranceSlack widens the accepted band to tolerance*(1+1e-9) so binary rounding in |a-b|
// cannot reject correct±tolerance. Answers past the band by more than that are incorrect.
const toleranceSlack = 1e-9

type Result struct {
	IsCorrect bool    `json:"is_correct"`
	Score     float64 `json:"score"`
}

// Grade returns the binary grade of rawAnswer for q. An empty answer is incorrect.
func Grade(q *models.Question, rawAnswer string) Result {
	if strings.TrimSpace(rawAnswer) == "" {
		return Result{}
	}

	var ok bool
	switch q.Type {
	case models.MultipleChoice:
		ok = strings.EqualFold(strings.TrimSpace(rawAnswer), strings.TrimSpace(q.CorrectAnswer))
	default:
		ok = matchShortAnswer(q.CorrectAnswer, rawAnswer, q.Tolerance)
	}

	if !ok {
		return Result{}
	}
	return Result{IsCorrect: true, Score: 1}
}

func matchShortAnswer(correct, answer string, tolerance *float64) bool {
	want, got := Normalize(correct), Normalize(answer)
	if got == "" {
		return false
	}

	wantNum, wantIsNum := parseNumber(want)
	gotNum, gotIsNum := parseNumber(got)
	if wantIsNum && gotIsNum {
		tol := 0.0
		if tolerance != nil && *tolerance > 0 {
			tol = *tolerance
		}
		if tol == 0 {
			return wantNum == gotNum
		}
		return math.Abs(wantNum-gotNum) <= tol+tol*toleranceSlack
	}

	return want == got
}

// Normalize trims, collapses internal whitespace and case-folds s.
func Normalize(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	return cases.Fold().String(collapsed)
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
