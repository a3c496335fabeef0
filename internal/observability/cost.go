package observability

import (
	"strconv"

	"github.com/Conceptual-Machines/melody-api/internal/metrics"
)

// Pricing constants, USD per 1K tokens
const (
	tokensPerKilo       = 1000.0
	costFormatPrecision = 6

	gpt5InputPrice  = 0.00125
	gpt5OutputPrice = 0.01

	gpt5MiniInputPrice  = 0.00025
	gpt5MiniOutputPrice = 0.002

	gpt41MiniInputPrice  = 0.0004
	gpt41MiniOutputPrice = 0.0016

	geminiFlashInputPrice  = 0.0003
	geminiFlashOutputPrice = 0.0025

	geminiProInputPrice  = 0.00125
	geminiProOutputPrice = 0.01

	defaultModel = "gpt-5-mini"
)

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64 // Price per 1K input tokens in USD
	OutputPricePer1K float64 // Price per 1K output tokens in USD
}

// PricingTable contains pricing for the models melody search can use
var PricingTable = map[string]ModelPricing{
	"gpt-5":            {InputPricePer1K: gpt5InputPrice, OutputPricePer1K: gpt5OutputPrice},
	"gpt-5-mini":       {InputPricePer1K: gpt5MiniInputPrice, OutputPricePer1K: gpt5MiniOutputPrice},
	"gpt-4.1-mini":     {InputPricePer1K: gpt41MiniInputPrice, OutputPricePer1K: gpt41MiniOutputPrice},
	"gemini-2.5-flash": {InputPricePer1K: geminiFlashInputPrice, OutputPricePer1K: geminiFlashOutputPrice},
	"gemini-2.5-pro":   {InputPricePer1K: geminiProInputPrice, OutputPricePer1K: geminiProOutputPrice},
}

// CalculateCost estimates the USD cost of one model call. Unknown models are
// priced as gpt-5-mini. Reasoning tokens are billed as output and are
// already part of OutputTokens.
func CalculateCost(model string, usage metrics.Usage) float64 {
	pricing, exists := PricingTable[model]
	if !exists {
		pricing = PricingTable[defaultModel]
	}

	inputCost := (float64(usage.InputTokens) / tokensPerKilo) * pricing.InputPricePer1K
	outputCost := (float64(usage.OutputTokens) / tokensPerKilo) * pricing.OutputPricePer1K
	return inputCost + outputCost
}

// FormatCost formats a cost value as a USD string
func FormatCost(cost float64) string {
	return "$" + strconv.FormatFloat(cost, 'f', costFormatPrecision, 64)
}
