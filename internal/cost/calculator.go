// Package cost estimates the USD cost of model calls recorded in the
// token-usage audit trail.
package cost

// ModelRate holds per-model token pricing (USD per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Rates maps model or deployment names to their pricing.
type Rates map[string]ModelRate

// Calculator computes costs for recorded token usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Tokens computes the cost of one model's token consumption. Unknown models
// cost zero: the report marks them unpriced instead of guessing.
func (c *Calculator) Tokens(model string, input, output int64) float64 {
	rate, ok := c.rates[model]
	if !ok {
		return 0
	}
	return (float64(input)/1e6)*rate.Input + (float64(output)/1e6)*rate.Output
}

// Known reports whether pricing exists for a model.
func (c *Calculator) Known(model string) bool {
	_, ok := c.rates[model]
	return ok
}

// DefaultRates returns pricing for the models this system ships configured
// for. Deployment aliases share their base model's rates.
func DefaultRates() Rates {
	return Rates{
		"gpt-4o":                     {Input: 2.50, Output: 10.00},
		"team13-gpt4o":               {Input: 2.50, Output: 10.00},
		"text-embedding-3-small":     {Input: 0.02},
		"team13-embedding":           {Input: 0.02},
		"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
		"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
	}
}
