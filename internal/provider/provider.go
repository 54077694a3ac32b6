package provider

import (
	"context"
	"errors"
	"fmt"
)

// Source labels the provider that produced a result.
type Source string

const (
	SourceRemoteInference Source = "remote-inference"
	SourceRemoteWebhook   Source = "remote-webhook"
	SourceFallbackStatic  Source = "fallback-static"
	SourceAIGenerated     Source = "ai-generated"
	SourceTemplate        Source = "template"
)

type AnswerResult struct {
	Success    bool     `json:"success"`
	Answer     string   `json:"answer"`
	References []string `json:"references"`
	Links      []string `json:"links"`
	Source     Source   `json:"source"`
}

type DraftRequest struct {
	FileContent       string `json:"file_content"`
	AdditionalContext string `json:"additional_context"`
}

type DraftResult struct {
	Success bool   `json:"success"`
	Draft   string `json:"draft"`
	Source  Source `json:"source"`
}

type QueryProvider interface {
	Answer(ctx context.Context, question string) (AnswerResult, error)
	Name() string
}

type DraftProvider interface {
	Draft(ctx context.Context, req DraftRequest) (DraftResult, error)
	Name() string
}

// Kind classifies why a provider attempt failed.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindHTTP         Kind = "http"
	KindMalformed    Kind = "malformed"
	KindUnconfigured Kind = "unconfigured"
)

type Error struct {
	Provider string
	Kind     Kind
	Status   int
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s failure", e.Provider, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the failure kind of err if it carries a provider Error.
func KindOf(err error) (Kind, bool) {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind, true
	}
	return "", false
}
