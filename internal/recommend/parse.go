package recommend

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/schemas"
	"github.com/CarlosMtz1281/PathExplorerSabritones-sub000/internal/types"
)

//go:embed raw_recommendation.schema.json
var rawRecommendationSchema string

// trailingCommaRE matches a comma followed by a closing bracket or brace.
// Models routinely emit trailing commas, which encoding/json rejects.
var trailingCommaRE = regexp.MustCompile(`,\s*([\]}])`)

// CleanResponse strips markdown code fences and trailing commas from a raw
// model reply, leaving a best-effort JSON document.
func CleanResponse(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)
	return trailingCommaRE.ReplaceAllString(text, "$1")
}

// ParseRawRecommendation cleans and decodes a model reply into a
// RawRecommendation. Any failure after cleanup maps to ErrUpstreamMalformed;
// the response was received, it just cannot be used.
func ParseRawRecommendation(text string) (*types.RawRecommendation, error) {
	cleaned := CleanResponse(text)

	if err := schemas.ValidateJSONString(rawRecommendationSchema, cleaned); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
	}

	var raw types.RawRecommendation
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
	}

	if err := raw.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
	}

	// The contract allows at most three suggestions of each kind. Extra ones
	// are advisory noise; truncate rather than reject.
	suggestions := &raw.Recommendations.Area.Recommendations
	if len(suggestions.Certification) > maxSuggestions {
		suggestions.Certification = suggestions.Certification[:maxSuggestions]
	}
	if len(suggestions.Positions) > maxSuggestions {
		suggestions.Positions = suggestions.Positions[:maxSuggestions]
	}

	return &raw, nil
}

// maxSuggestions is the per-kind cap on suggestions from the service.
const maxSuggestions = 3
