package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const webhookReference = "Local AI Processing"

var webhookSchema = jsonschema.MustCompileString("webhook.json", `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["answer"],
	"properties": {
		"answer": {"type": "string"}
	}
}`)

// Webhook posts questions to an automation workflow that answers with a
// locally hosted model.
type Webhook struct {
	URL    string
	Client *http.Client
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Webhook{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Answer(ctx context.Context, question string) (AnswerResult, error) {
	doc, err := postJSON(ctx, w.Client, w.Name(), w.URL, map[string]string{"query": question}, webhookSchema)
	if err != nil {
		return AnswerResult{}, err
	}
	return AnswerResult{
		Success:    true,
		Answer:     doc.(map[string]any)["answer"].(string),
		References: []string{webhookReference},
		Links:      []string{},
		Source:     SourceRemoteWebhook,
	}, nil
}
