package analysis

type ErrorType string

const (
	ConceptualError    ErrorType = "Conceptual Error"
	ProceduralError    ErrorType = "Procedural Error"
	ComputationalError ErrorType = "Computational Error"
	StrategyError      ErrorType = "Strategy Error"
	CarelessError      ErrorType = "Careless Error"
)

// Taxonomy is the closed set of labels, in prompt order.
var Taxonomy = []ErrorType{
	ConceptualError,
	ProceduralError,
	ComputationalError,
	StrategyError,
	CarelessError,
}

func (t ErrorType) IsValid() bool {
	for _, known := range Taxonomy {
		if t == known {
			return true
		}
	}
	return false
}

// Labels returns the taxonomy as plain strings.
func Labels() []string {
	out := make([]string, len(Taxonomy))
	for i, t := range Taxonomy {
		out[i] = string(t)
	}
	return out
}
