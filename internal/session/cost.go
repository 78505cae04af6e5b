package session

import (
	"strings"
)

// TokensPerWord approximates how many model tokens one whitespace-separated word costs.
// Totals derived from it are estimates, not billing figures.
const TokensPerWord = 1.3

// DefaultRatePer1K is charged for models missing from the rate table
const DefaultRatePer1K = 0.03

// ratesPer1K holds USD per 1000 estimated tokens
var ratesPer1K = map[string]float64{
	"gpt-4o-mini":      0.00015,
	"gpt-4o":           0.0025,
	"gpt-4-turbo":      0.01,
	"gpt-4":            0.03,
	"gemini-1.5-flash": 0.000075,
	"gemini-1.5-pro":   0.00125,
}

// Models lists the model ids with a known rate, cheapest first
var Models = []string{
	"gemini-1.5-flash",
	"gpt-4o-mini",
	"gemini-1.5-pro",
	"gpt-4o",
	"gpt-4-turbo",
	"gpt-4",
}

// RatePer1K returns the per-1000-token rate for a model
func RatePer1K(modelID string) float64 {
	if rate, ok := ratesPer1K[modelID]; ok {
		return rate
	}
	return DefaultRatePer1K
}

// EstimateTokens approximates the token count of the given texts from their word counts
func EstimateTokens(texts ...string) float64 {
	var words int
	for _, text := range texts {
		words += len(strings.Fields(text))
	}
	return float64(words) * TokensPerWord
}

// EstimateCost converts an estimated token count into USD for a model
func EstimateCost(tokens float64, modelID string) float64 {
	return tokens / 1000 * RatePer1K(modelID)
}
