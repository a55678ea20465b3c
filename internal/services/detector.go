package services

import (
	"fmt"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
)

const repeatedErrorThreshold = 2

// DetectRepeatedErrors returns one alert per error type seen at least twice among the
// incorrect items, in order of each type's first occurrence.
func DetectRepeatedErrors(items []models.SubmissionItem) []string {
	counts := make(map[string]int)
	var order []string
	for i := range items {
		item := &items[i]
		if item.IsCorrect || item.ErrorType == nil || *item.ErrorType == "" {
			continue
		}
		if counts[*item.ErrorType] == 0 {
			order = append(order, *item.ErrorType)
		}
		counts[*item.ErrorType]++
	}

	alerts := []string{}
	for _, errorType := range order {
		if n := counts[errorType]; n >= repeatedErrorThreshold {
			alerts = append(alerts, fmt.Sprintf("Notice: you made a %q %d times in this test. Review recommended.", errorType, n))
		}
	}
	return alerts
}
