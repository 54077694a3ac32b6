package provider

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestKnowledgeBaseKeywordMatch(t *testing.T) {
	kb := NewKnowledgeBase()
	cases := []struct {
		question string
		keyword  string
	}{
		{"What is the GST RATE for restaurants?", "gst rate"},
		{"company registration help", "registration"},
		{"When is my annual return due?", "return"},
		{"I got a NOTICE from the department", "notice"},
		// "gst rate" precedes "return" in scan order.
		{"gst rate on returned goods", "gst rate"},
		// substring, not word boundary
		{"unregistrationed", "registration"},
	}
	for _, tc := range cases {
		entry, ok := kb.Lookup(tc.question)
		if !ok {
			t.Fatalf("expected %q to match %q", tc.question, tc.keyword)
		}
		if entry.Keyword != tc.keyword {
			t.Fatalf("question %q matched %q, expected %q", tc.question, entry.Keyword, tc.keyword)
		}
		res := kb.Resolve(tc.question)
		if res.Answer != entry.Answer || res.References[0] != "Offline Knowledge Base" {
			t.Fatalf("unexpected result for %q: %+v", tc.question, res)
		}
	}
}

func TestKnowledgeBaseCatchAll(t *testing.T) {
	kb := NewKnowledgeBase()
	for _, q := range []string{"", "How do I claim input tax credit?", "what is the default penalty?"} {
		res, err := kb.Answer(context.Background(), q)
		if err != nil {
			t.Fatalf("answer: %v", err)
		}
		if res.Answer != DefaultAnswer {
			t.Fatalf("expected catch-all answer for %q, got %q", q, res.Answer)
		}
		if res.References[0] != "General GST Information" {
			t.Fatalf("expected general reference, got %v", res.References)
		}
		if res.Links[0] != "https://www.gst.gov.in/" {
			t.Fatalf("unexpected links: %v", res.Links)
		}
		if res.Source != SourceFallbackStatic || !res.Success {
			t.Fatalf("unexpected result: %+v", res)
		}
	}
}

func TestKnowledgeBaseEntriesAreCopies(t *testing.T) {
	kb := NewKnowledgeBase()
	entries := kb.Entries()
	entries[0].Answer = "mutated"
	if res := kb.Resolve("gst rate"); res.Answer == "mutated" {
		t.Fatalf("entries must not alias the knowledge base")
	}
}

func TestTemplateRender(t *testing.T) {
	day := time.Date(2026, time.March, 7, 15, 4, 5, 0, time.UTC)
	tmpl := &Template{Now: func() time.Time { return day }}
	res, err := tmpl.Draft(context.Background(), DraftRequest{FileContent: "ignored"})
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if res.Source != SourceTemplate || !res.Success {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(res.Draft, "DISCLAIMER") {
		t.Fatalf("template must carry a disclaimer")
	}
	if !strings.Contains(res.Draft, "Date: 07/03/2026") {
		t.Fatalf("expected dated signature line, got:\n%s", res.Draft)
	}
	for _, placeholder := range []string{"[Address as mentioned in the notice]", "[Based on your specific case details]", "[Your Name]"} {
		if !strings.Contains(res.Draft, placeholder) {
			t.Fatalf("missing placeholder %q", placeholder)
		}
	}
}
