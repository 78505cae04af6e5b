package gateway

import (
	"context"
	"errors"
)

// DefaultModerationModel is the moderation model used when none is configured
const DefaultModerationModel = "omni-moderation-latest"

// ModerationClassifier flags input through the OpenAI moderation endpoint.
// It satisfies safety.Classifier.
type ModerationClassifier struct {
	provider *OpenAIProvider
	model    string
}

// NewModerationClassifier creates a classifier that shares the provider's HTTP settings
func NewModerationClassifier(provider *OpenAIProvider, model string) *ModerationClassifier {
	if model == "" {
		model = DefaultModerationModel
	}
	return &ModerationClassifier{provider: provider, model: model}
}

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type moderationResponse struct {
	Results []struct {
		Flagged bool `json:"flagged"`
	} `json:"results"`
}

// Classify reports whether the moderation endpoint flags the text
func (c *ModerationClassifier) Classify(ctx context.Context, text string) (bool, error) {
	var resp moderationResponse
	if err := c.provider.postJSON(ctx, "/moderations", moderationRequest{Model: c.model, Input: text}, &resp); err != nil {
		return false, err
	}
	if len(resp.Results) == 0 {
		return false, &GatewayError{Provider: "openai-moderation", Err: errors.New("empty moderation result")}
	}
	return resp.Results[0].Flagged, nil
}
