// Package insight generates short textual insights for chart panels via a
// generative-text backend.
package insight

import "context"

// MaxInsights caps how many bullets a provider may return per panel.
const MaxInsights = 3

// FallbackNoInsights is substituted when the model replies with empty or
// unusable content. Transport failures are returned as errors instead and
// handled by the dataset processor.
const FallbackNoInsights = "No insights available for this chart."

// Provider generates insight bullets for one chart panel.
type Provider interface {
	// GenerateInsights returns between 1 and MaxInsights short strings for
	// the given chart title and data summary.
	GenerateInsights(ctx context.Context, title, summary string) ([]string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, title, summary string) ([]string, error)

func (f ProviderFunc) GenerateInsights(ctx context.Context, title, summary string) ([]string, error) {
	return f(ctx, title, summary)
}
