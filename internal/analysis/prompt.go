package analysis

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/reproducible-assessment/internal/llm"
)

const systemPrompt = "You are an expert mathematics tutor. Analyse the student's wrong answer and give feedback " +
	"without solving the problem. Respond with a single JSON object and nothing else."

var hintLevelNames = map[int]string{1: "subtle", 2: "moderate", 3: "strong"}

// buildPrompt renders the fixed user prompt for in.
func buildPrompt(in Input) string {
	labels := make([]string, len(Taxonomy))
	for i, t := range Taxonomy {
		labels[i] = fmt.Sprintf("%q", t)
	}

	var b strings.Builder
	b.WriteString("Analyse the following wrong answer.\n\n")
	fmt.Fprintf(&b, "Question: %s\n", in.Stem)
	fmt.Fprintf(&b, "Correct answer: %s\n", in.CorrectAnswer)
	fmt.Fprintf(&b, "Reference outline: %s\n", in.ReferenceOutline)
	if len(in.KnowledgePoints) > 0 {
		fmt.Fprintf(&b, "Knowledge points: %s\n", strings.Join(in.KnowledgePoints, ", "))
	}
	fmt.Fprintf(&b, "Student answer: %s\n", displayAnswer(in.StudentAnswer))
	fmt.Fprintf(&b, "Requested hint level: %d (%s; 1=subtle, 2=moderate, 3=strong)\n\n", in.HintLevel, hintLevelNames[in.HintLevel])
	b.WriteString("Rules:\n")
	fmt.Fprintf(&b, "1) error_type must be exactly one of: %s.\n", strings.Join(labels, ", "))
	b.WriteString("2) explanation: one or two sentences about what went wrong.\n")
	b.WriteString("3) hint: exactly one sentence. Do not state the final answer. Do not solve the problem.\n")
	b.WriteString("4) knowledge_points: zero to five short phrases to review.\n\n")
	b.WriteString(`Output: {"error_type":"...","explanation":"...","hint":"...","knowledge_points":["..."]}`)
	return b.String()
}

func displayAnswer(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(no answer given)"
	}
	return s
}

// analysisSchema constrains the model output. Every property is required so that
// providers with strict structured output accept it.
var analysisSchema = &llm.Schema{
	Name:        "wrong-answer-analysis",
	Description: "Classification of a wrong answer with a single-sentence hint.",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"error_type": map[string]any{
				"type": "string",
				"enum": Labels(),
			},
			"explanation": map[string]any{"type": "string"},
			"hint":        map[string]any{"type": "string"},
			"knowledge_points": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []string{"error_type", "explanation", "hint", "knowledge_points"},
		"additionalProperties": false,
	},
}
