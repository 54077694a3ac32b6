package provider

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// draftFnIndex selects the drafting function on the inference endpoint.
const draftFnIndex = 1

var predictSchema = jsonschema.MustCompileString("predict.json", `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["data"],
	"properties": {
		"data": {
			"type": "array",
			"minItems": 1,
			"prefixItems": [
				{"type": "string"},
				{"type": ["string", "null"]},
				{"type": ["string", "null"]}
			]
		}
	}
}`)

// Inference talks to a hosted model app exposing /api/predict. Slot 0 answers
// questions, slot 1 drafts notice replies.
type Inference struct {
	BaseURL string
	Client  *http.Client
}

func NewInference(baseURL string, timeout time.Duration) *Inference {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Inference{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

func (p *Inference) Name() string { return "inference" }

func (p *Inference) endpoint() string {
	if p.BaseURL == "" {
		return ""
	}
	return p.BaseURL + "/api/predict"
}

func (p *Inference) Answer(ctx context.Context, question string) (AnswerResult, error) {
	payload := map[string]any{
		"data": []string{question},
	}
	data, err := p.predict(ctx, payload)
	if err != nil {
		return AnswerResult{}, err
	}
	return AnswerResult{
		Success:    true,
		Answer:     data[0].(string),
		References: splitLines(optionalString(data, 1)),
		Links:      splitLines(optionalString(data, 2)),
		Source:     SourceRemoteInference,
	}, nil
}

func (p *Inference) Draft(ctx context.Context, req DraftRequest) (DraftResult, error) {
	payload := map[string]any{
		"data":     []string{req.FileContent, req.AdditionalContext},
		"fn_index": draftFnIndex,
	}
	data, err := p.predict(ctx, payload)
	if err != nil {
		return DraftResult{}, err
	}
	return DraftResult{
		Success: true,
		Draft:   data[0].(string),
		Source:  SourceAIGenerated,
	}, nil
}

func (p *Inference) predict(ctx context.Context, payload any) ([]any, error) {
	doc, err := postJSON(ctx, p.Client, p.Name(), p.endpoint(), payload, predictSchema)
	if err != nil {
		return nil, err
	}
	return doc.(map[string]any)["data"].([]any), nil
}

func optionalString(data []any, idx int) string {
	if idx >= len(data) {
		return ""
	}
	s, _ := data[idx].(string)
	return s
}

// splitLines splits newline-joined text; empty input yields an empty list.
func splitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}
