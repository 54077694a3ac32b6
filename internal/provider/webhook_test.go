package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWebhookAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["query"] != "How do I file GSTR-3B?" {
			t.Fatalf("unexpected query: %v", body)
		}
		_, _ = w.Write([]byte(`{"answer":"File it on the GST portal by the 20th."}`))
	}))
	defer srv.Close()

	res, err := NewWebhook(srv.URL, time.Second).Answer(context.Background(), "How do I file GSTR-3B?")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if res.Source != SourceRemoteWebhook || !res.Success {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Answer != "File it on the GST portal by the 20th." {
		t.Fatalf("unexpected answer: %q", res.Answer)
	}
	if len(res.References) != 1 || res.References[0] != "Local AI Processing" {
		t.Fatalf("unexpected references: %v", res.References)
	}
	if len(res.Links) != 0 {
		t.Fatalf("expected no links, got %v", res.Links)
	}
}

func TestWebhookMissingAnswerIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output":"wrong field"}`))
	}))
	defer srv.Close()

	_, err := NewWebhook(srv.URL, time.Second).Answer(context.Background(), "q")
	if kind, _ := KindOf(err); kind != KindMalformed {
		t.Fatalf("expected malformed failure, got %v", err)
	}
}

func TestWebhookNotFoundIsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewWebhook(srv.URL, time.Second).Answer(context.Background(), "q")
	if kind, _ := KindOf(err); kind != KindHTTP {
		t.Fatalf("expected http failure, got %v", err)
	}
}
