package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

const insightPrompt = `You are a media analytics assistant. Given the title of a dashboard chart and a summary of the data behind it, write up to 3 short insight bullets a communications team would find useful.

Rules:
1. Each insight is a single plain sentence, no markdown.
2. Ground every insight in the numbers from the summary.
3. Output JSON only: an array of strings, e.g. ["...", "..."].`

// GeminiProvider generates insights with the Gemini API. It only handles the
// API call itself; caching is layered on via CachedProvider.
type GeminiProvider struct {
	cli   *genai.Client
	model string
}

// NewGeminiProvider creates a provider for the given model. The genai client
// reads GEMINI_API_KEY from the environment.
func NewGeminiProvider(ctx context.Context, model string) (*GeminiProvider, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiProvider{cli: cli, model: model}, nil
}

// GenerateInsights asks the model for a JSON array of insight strings.
// Malformed or empty model output degrades to the fallback bullet; only
// transport-level failures surface as errors.
func (g *GeminiProvider) GenerateInsights(ctx context.Context, title, summary string) ([]string, error) {
	full := fmt.Sprintf("%s\n\nChart: %s\nData: %s", insightPrompt, title, summary)

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return []string{FallbackNoInsights}, nil
	}

	return parseInsightJSON(resp.Candidates[0].Content.Parts[0].Text), nil
}

// parseInsightJSON extracts the insight strings from raw model output.
// Anything unusable collapses to the single fallback bullet.
func parseInsightJSON(raw string) []string {
	cleaned := cleanJSONResponse(raw)

	var bullets []string
	if err := json.Unmarshal([]byte(cleaned), &bullets); err != nil {
		return []string{FallbackNoInsights}
	}

	out := make([]string, 0, MaxInsights)
	for _, b := range bullets {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		out = append(out, b)
		if len(out) == MaxInsights {
			break
		}
	}
	if len(out) == 0 {
		return []string{FallbackNoInsights}
	}
	return out
}

// cleanJSONResponse strips markdown code fences some models wrap around JSON.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
