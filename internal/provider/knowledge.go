package provider

import (
	"context"
	"strings"
)

const (
	offlineReference = "Offline Knowledge Base"
	generalReference = "General GST Information"
	portalLink       = "https://www.gst.gov.in/"

	DefaultAnswer = "I can help with GST queries related to registration, rates, returns, and compliance."
)

type Entry struct {
	Keyword string
	Answer  string
}

// Scan order matters: the first keyword contained in the question wins.
var knowledgeEntries = []Entry{
	{Keyword: "gst rate", Answer: "GST rates in India are: 0%, 5%, 12%, 18%, and 28%. The rate depends on the type of goods or services."},
	{Keyword: "registration", Answer: "GST registration is mandatory for businesses with aggregate turnover exceeding ₹40 lakhs (₹20 lakhs for northeastern states)."},
	{Keyword: "return", Answer: "Main GST returns include GSTR-1, GSTR-3B, GSTR-2A, and GSTR-9. Filing deadlines vary by turnover."},
	{Keyword: "notice", Answer: "GST notices require specific response formats. Would you like help drafting a response?"},
}

// KnowledgeBase is the offline last tier. It never fails.
type KnowledgeBase struct {
	entries []Entry
}

func NewKnowledgeBase() *KnowledgeBase {
	entries := make([]Entry, len(knowledgeEntries))
	copy(entries, knowledgeEntries)
	return &KnowledgeBase{entries: entries}
}

func (k *KnowledgeBase) Name() string { return "knowledge-base" }

func (k *KnowledgeBase) Entries() []Entry {
	out := make([]Entry, len(k.entries))
	copy(out, k.entries)
	return out
}

// Lookup returns the first entry whose keyword is a substring of the
// lower-cased question.
func (k *KnowledgeBase) Lookup(question string) (Entry, bool) {
	lower := strings.ToLower(question)
	for _, entry := range k.entries {
		if strings.Contains(lower, entry.Keyword) {
			return entry, true
		}
	}
	return Entry{}, false
}

func (k *KnowledgeBase) Resolve(question string) AnswerResult {
	if entry, ok := k.Lookup(question); ok {
		return AnswerResult{
			Success:    true,
			Answer:     entry.Answer,
			References: []string{offlineReference},
			Links:      []string{portalLink},
			Source:     SourceFallbackStatic,
		}
	}
	return AnswerResult{
		Success:    true,
		Answer:     DefaultAnswer,
		References: []string{generalReference},
		Links:      []string{portalLink},
		Source:     SourceFallbackStatic,
	}
}

func (k *KnowledgeBase) Answer(_ context.Context, question string) (AnswerResult, error) {
	return k.Resolve(question), nil
}
