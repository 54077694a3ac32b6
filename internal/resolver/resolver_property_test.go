package resolver

import (
	"context"
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"gstassist/internal/provider"
)

// With every remote tier failing, any question resolves to the knowledge base
// answer, is marked successful, and repeats identically.
func TestProperty_QueryFallbackIsStaticAndStable(t *testing.T) {
	failing := []provider.QueryProvider{
		&stubQuery{name: "inference", err: &provider.Error{Provider: "inference", Kind: provider.KindNetwork}},
		&stubQuery{name: "webhook", err: &provider.Error{Provider: "webhook", Kind: provider.KindHTTP, Status: 503}},
	}
	r := New(failing, nil, nil, nil, WithLogger(quietLogger()))
	kb := provider.NewKnowledgeBase()

	rapid.Check(t, func(rt *rapid.T) {
		question := rapid.String().Draw(rt, "question")
		first := r.ResolveQuery(context.Background(), question)
		second := r.ResolveQuery(context.Background(), question)
		if first.Source != provider.SourceFallbackStatic || !first.Success {
			rt.Fatalf("unexpected result: %+v", first)
		}
		if !reflect.DeepEqual(first, kb.Resolve(question)) {
			rt.Fatalf("question %q: result differs from knowledge base", question)
		}
		if !reflect.DeepEqual(first, second) {
			rt.Fatalf("question %q: repeated calls differ", question)
		}
	})
}
