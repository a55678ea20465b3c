package grading

import (
	"testing"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestGrade_MultipleChoice(t *testing.T) {
	q := &models.Question{
		ID:            "Q1",
		Type:          models.MultipleChoice,
		Options:       []models.Option{{ID: "A", Text: "1/x"}, {ID: "B", Text: "x"}},
		CorrectAnswer: "B",
	}

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{"exact", "B", true},
		{"lower case", "b", true},
		{"padded", "  b \n", true},
		{"wrong option", "A", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"option text is not an id", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(q, tt.answer)
			assert.Equal(t, tt.want, got.IsCorrect)
			if tt.want {
				assert.Equal(t, 1.0, got.Score)
			} else {
				assert.Equal(t, 0.0, got.Score)
			}
		})
	}
}

func TestGrade_ShortAnswerNumericTolerance(t *testing.T) {
	q := &models.Question{ID: "Q2", Type: models.ShortAnswer, CorrectAnswer: "5", Tolerance: ptr(0.01)}

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{"exact", "5", true},
		{"decimal form", "5.000", true},
		{"within tolerance below", "4.999", true},
		{"at upper bound", "5.01", true},
		{"at lower bound", "4.99", true},
		{"just past upper bound", "5.0101", false},
		{"just past lower bound", "4.9899", false},
		{"not a number", "five", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grade(q, tt.answer).IsCorrect)
		})
	}
}

func TestGrade_ShortAnswerToleranceBoundaryRounding(t *testing.T) {
	// 0.4 - 0.3 evaluates to 0.10000000000000003 in binary floating point.
	q := &models.Question{Type: models.ShortAnswer, CorrectAnswer: "0.3", Tolerance: ptr(0.1)}

	assert.True(t, Grade(q, "0.4").IsCorrect)
	assert.True(t, Grade(q, "0.2").IsCorrect)
	assert.False(t, Grade(q, "0.41").IsCorrect)
}

func TestGrade_ShortAnswerToleranceSlackEdge(t *testing.T) {
	q := &models.Question{Type: models.ShortAnswer, CorrectAnswer: "5", Tolerance: ptr(0.01)}

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		// 1e-12 past the bound sits inside the 0.01*1e-9 rounding band.
		{"inside rounding band above", "5.010000000001", true},
		{"inside rounding band below", "4.989999999999", true},
		// 1e-7 past the bound is well outside it.
		{"outside rounding band above", "5.0100001", false},
		{"outside rounding band below", "4.9899999", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grade(q, tt.answer).IsCorrect)
		})
	}
}

func TestGrade_ShortAnswerZeroToleranceIsExact(t *testing.T) {
	q := &models.Question{Type: models.ShortAnswer, CorrectAnswer: "1"}

	assert.True(t, Grade(q, "1.0").IsCorrect)
	assert.True(t, Grade(q, " 1 ").IsCorrect)
	assert.False(t, Grade(q, "1.0000001").IsCorrect)
}

func TestGrade_ShortAnswerText(t *testing.T) {
	q := &models.Question{Type: models.ShortAnswer, CorrectAnswer: "2x cos(x^2)"}

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{"exact", "2x cos(x^2)", true},
		{"case folded", "2X COS(X^2)", true},
		{"collapsed whitespace", "  2x    cos(x^2) ", true},
		{"missing factor", "cos(x^2)", false},
		{"whitespace inside token matters", "2 x cos(x^2)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grade(q, tt.answer).IsCorrect)
		})
	}
}

func TestGrade_IsPure(t *testing.T) {
	q := &models.Question{Type: models.ShortAnswer, CorrectAnswer: "e^x + x e^x", Tolerance: ptr(0)}

	first := Grade(q, "E^X + X E^X")
	for range 50 {
		assert.Equal(t, first, Grade(q, "E^X + X E^X"))
	}
	assert.Equal(t, "e^x + x e^x", q.CorrectAnswer)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Normalize("STRASSE"), Normalize("  Straße "))
	assert.Equal(t, "a b c", Normalize("A\n B  C"))
	assert.Equal(t, "", Normalize("   "))
}
