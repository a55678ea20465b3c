package drafts

import "github.com/SAP-F-2025/reproducible-assessment/internal/models"

func group(name string) *string { return &name }

// DefaultPool returns the offline calculus pool. Three of its groups carry two members, so
// equivalent papers and practice retries work on a freshly frozen default bank.
func DefaultPool() []models.QuestionDraft {
	return []models.QuestionDraft{
		{
			ID:               "draft_limit_sin_over_x",
			Stem:             "Compute the limit: lim_{x->0} (sin x)/x",
			Type:             models.ShortAnswer,
			CorrectAnswer:    "1",
			Topic:            "limits",
			Difficulty:       2,
			IsomorphicGroup:  group("group_limit_sin_over_x"),
			KnowledgePoints:  []string{"limits", "trigonometric limits"},
			ReferenceOutline: "Use the standard limit sin(x)/x -> 1 as x->0.",
		},
		{
			ID:               "draft_limit_e",
			Stem:             "Evaluate lim_{n->∞} (1 + 1/n)^n",
			Type:             models.ShortAnswer,
			CorrectAnswer:    "e",
			Topic:            "limits",
			Difficulty:       3,
			IsomorphicGroup:  group("group_limit_e"),
			KnowledgePoints:  []string{"limits", "number e"},
			ReferenceOutline: "Definition of e via the compound interest limit.",
		},
		{
			ID:               "draft_derivative_x3",
			Stem:             "Compute d/dx of x^3",
			Type:             models.ShortAnswer,
			CorrectAnswer:    "3x^2",
			Topic:            "derivatives",
			Difficulty:       1,
			IsomorphicGroup:  group("group_derivative_power_rule"),
			KnowledgePoints:  []string{"derivatives", "power rule"},
			ReferenceOutline: "Power rule: d/dx x^n = n x^{n-1}.",
		},
		{
			ID:               "draft_derivative_x4",
			Stem:             "Compute d/dx of x^4",
			Type:             models.ShortAnswer,
			CorrectAnswer:    "4x^3",
			Topic:            "derivatives",
			Difficulty:       1,
			IsomorphicGroup:  group("group_derivative_power_rule"),
			KnowledgePoints:  []string{"derivatives", "power rule"},
			ReferenceOutline: "Power rule: d/dx x^n = n x^{n-1}.",
		},
		{
			ID:               "draft_chain_rule_sin_x2",
			Stem:             "Compute d/dx of sin(x^2)",
			Type:             models.ShortAnswer,
			CorrectAnswer:    "2x cos(x^2)",
			Topic:            "derivatives",
			Difficulty:       3,
			IsomorphicGroup:  group("group_chain_rule_trig"),
			KnowledgePoints:  []string{"chain rule", "trigonometric derivatives"},
			ReferenceOutline: "Chain rule: the derivative of sin(u) is cos(u) * du/dx.",
		},
		{
			ID:               "draft_chain_rule_cos_3x",
			Stem:             "Compute d/dx of cos(3x)",
			Type:             models.ShortAnswer,
			CorrectAnswer:    "-3 sin(3x)",
			Topic:            "derivatives",
			Difficulty:       3,
			IsomorphicGroup:  group("group_chain_rule_trig"),
			KnowledgePoints:  []string{"chain rule", "trigonometric derivatives"},
			ReferenceOutline: "Chain rule: the derivative of cos(u) is -sin(u) * du/dx.",
		},
		{
			ID:   "draft_mcq_derivative_ln",
			Stem: "Which of the following is d/dx (ln x) for x>0?",
			Type: models.MultipleChoice,
			Options: []models.Option{
				{ID: "A", Text: "1/x"},
				{ID: "B", Text: "x"},
				{ID: "C", Text: "ln x"},
				{ID: "D", Text: "0"},
			},
			CorrectAnswer:    "A",
			Topic:            "derivatives",
			Difficulty:       1,
			IsomorphicGroup:  group("group_derivative_log"),
			KnowledgePoints:  []string{"logarithmic derivatives"},
			ReferenceOutline: "The derivative of the natural log is 1/x.",
		},
		{
			ID:               "draft_product_rule_x_ex",
			Stem:             "Compute d/dx of x e^x",
			Type:             models.ShortAnswer,
			CorrectAnswer:    "e^x + x e^x",
			Topic:            "derivatives",
			Difficulty:       2,
			IsomorphicGroup:  group("group_product_rule"),
			KnowledgePoints:  []string{"product rule", "exponential derivatives"},
			ReferenceOutline: "Product rule: (uv)' = u'v + uv'.",
		},
		{
			ID:               "draft_integral_x_0_1",
			Stem:             "Compute the definite integral: ∫_0^1 x dx",
			Type:             models.ShortAnswer,
			CorrectAnswer:    "0.5",
			Tolerance:        tolerance(0.001),
			Topic:            "integrals",
			Difficulty:       2,
			IsomorphicGroup:  group("group_integral_linear"),
			KnowledgePoints:  []string{"definite integrals", "Fundamental Theorem of Calculus"},
			ReferenceOutline: "The antiderivative of x is x^2/2; evaluate it at the bounds.",
		},
		{
			ID:               "draft_integral_x_0_2",
			Stem:             "Compute the definite integral: ∫_0^2 x dx",
			Type:             models.ShortAnswer,
			CorrectAnswer:    "2",
			Tolerance:        tolerance(0.001),
			Topic:            "integrals",
			Difficulty:       2,
			IsomorphicGroup:  group("group_integral_linear"),
			KnowledgePoints:  []string{"definite integrals", "Fundamental Theorem of Calculus"},
			ReferenceOutline: "The antiderivative of x is x^2/2; evaluate it at the bounds.",
		},
	}
}

func tolerance(t float64) *float64 { return &t }
