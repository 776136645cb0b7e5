package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"advisor/internal/cache"
	"advisor/internal/catalog"
	"advisor/internal/core"
	"advisor/internal/fallback"
)

// fakeCompleter scripts the remote completion service.
type fakeCompleter struct {
	calls     int
	responses []fakeReply
}

type fakeReply struct {
	text string
	err  error
}

func (f *fakeCompleter) Generate(_ context.Context, _ string) (string, error) {
	reply := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	f.calls++
	return reply.text, reply.err
}

func modelReply(analysis string, ids ...string) string {
	type entry struct {
		ProductID      string   `json:"product_id"`
		RelevanceScore int      `json:"relevance_score"`
		Reasoning      string   `json:"reasoning"`
		KeyFeatures    []string `json:"key_features"`
	}
	entries := make([]entry, len(ids))
	for i, id := range ids {
		entries[i] = entry{ProductID: id, RelevanceScore: 90 - i, Reasoning: "matches", KeyFeatures: []string{"f"}}
	}
	body, _ := json.Marshal(map[string]interface{}{
		"recommendations": entries,
		"query_analysis":  analysis,
	})
	return string(body)
}

func newService(t *testing.T, completer core.Completer) (*Service, *cache.MemoryCache) {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	memCache := cache.NewMemoryCache(0, 0)
	return New(cat, memCache, completer, fallback.New(), nil), memCache
}

func TestGetRecommendationsModelPath(t *testing.T) {
	completer := &fakeCompleter{responses: []fakeReply{{text: modelReply("laptops", "1", "2", "3")}}}
	svc, _ := newService(t, completer)

	result := svc.GetRecommendations(context.Background(), "laptop for coding")

	require.Equal(t, OriginModel, result.Origin)
	require.Equal(t, "laptops", result.Response.QueryAnalysis)
	require.Len(t, result.Response.Recommendations, 3)
	require.Equal(t, 1, completer.calls)
}

func TestGetRecommendationsCacheHitMasksFailure(t *testing.T) {
	completer := &fakeCompleter{responses: []fakeReply{
		{text: modelReply("first answer", "1", "2", "3")},
		{err: errors.New("remote is down")},
	}}
	svc, _ := newService(t, completer)
	ctx := context.Background()

	first := svc.GetRecommendations(ctx, "laptop for coding")
	require.Equal(t, OriginModel, first.Origin)

	// Second call within the TTL: the forced failure is never seen because
	// the cache answers first.
	second := svc.GetRecommendations(ctx, "laptop for coding")
	require.Equal(t, OriginCache, second.Origin)
	require.Equal(t, first.Response, second.Response)
	require.Equal(t, 1, completer.calls)
}

func TestGetRecommendationsCacheKeyNormalization(t *testing.T) {
	completer := &fakeCompleter{responses: []fakeReply{{text: modelReply("headphones", "11", "12", "10")}}}
	svc, _ := newService(t, completer)
	ctx := context.Background()

	first := svc.GetRecommendations(ctx, "Best Gaming Headphones")
	require.Equal(t, OriginModel, first.Origin)

	// Case and whitespace variants collapse to the same key; no second
	// outbound request happens.
	second := svc.GetRecommendations(ctx, "  best gaming headphones  ")
	require.Equal(t, OriginCache, second.Origin)
	require.Equal(t, first.Response, second.Response)
	require.Equal(t, 1, completer.calls)
}

func TestGetRecommendationsTransportFailure(t *testing.T) {
	completer := &fakeCompleter{responses: []fakeReply{{err: errors.New("connection refused")}}}
	svc, memCache := newService(t, completer)

	result := svc.GetRecommendations(context.Background(), "I need a laptop for programming with long battery life")

	require.Equal(t, OriginFallback, result.Origin)
	require.Equal(t,
		"User is looking for a laptop suitable for programming and development work.",
		result.Response.QueryAnalysis)

	ids := make([]string, len(result.Response.Recommendations))
	for i, rec := range result.Response.Recommendations {
		ids[i] = rec.ProductID
	}
	require.Equal(t, []string{"1", "3", "2"}, ids)

	// Fallback-derived responses are never cached.
	require.Equal(t, 0, memCache.Len())
}

func TestGetRecommendationsMalformedOutput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"prose with no JSON", "I'd recommend checking out our laptops!"},
		{"JSON missing recommendations", `{"query_analysis": "laptops"}`},
		{"empty recommendations", `{"recommendations": [], "query_analysis": "laptops"}`},
		{"entries all unusable", `{"recommendations": [{"reasoning": "no id or score"}]}`},
		{"truncated JSON", `{"recommendations": [{"product_id": "1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &fakeCompleter{responses: []fakeReply{{text: tt.text}}}
			svc, memCache := newService(t, completer)

			result := svc.GetRecommendations(context.Background(), "laptop")

			require.Equal(t, OriginFallback, result.Origin)
			require.Len(t, result.Response.Recommendations, 3)
			require.Equal(t, 0, memCache.Len())
		})
	}
}

func TestGetRecommendationsEmptyQuery(t *testing.T) {
	completer := &fakeCompleter{responses: []fakeReply{{text: modelReply("x", "1")}}}
	svc, _ := newService(t, completer)

	for _, q := range []string{"", "   ", "\t\n"} {
		result := svc.GetRecommendations(context.Background(), q)
		require.Equal(t, OriginFallback, result.Origin)
		require.Len(t, result.Response.Recommendations, 3)
	}
	// The remote service is never consulted for empty queries.
	require.Equal(t, 0, completer.calls)
}

func TestGetRecommendationsAlwaysOneToFive(t *testing.T) {
	replies := []fakeReply{
		{text: modelReply("one", "1")},
		{text: modelReply("five", "1", "2", "3", "4", "5")},
		{err: errors.New("down")},
		{text: "no json here"},
	}
	queries := []string{"q1", "q2", "q3", "q4"}

	for i, reply := range replies {
		completer := &fakeCompleter{responses: []fakeReply{reply}}
		svc, _ := newService(t, completer)

		result := svc.GetRecommendations(context.Background(), queries[i])
		n := len(result.Response.Recommendations)
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, 5)
	}
}

func TestGetRecommendationsFallbackDeterministic(t *testing.T) {
	var outputs []string
	for i := 0; i < 3; i++ {
		completer := &fakeCompleter{responses: []fakeReply{{err: errors.New("outage")}}}
		svc, _ := newService(t, completer)

		result := svc.GetRecommendations(context.Background(), "noise cancelling headphones for work")
		body, err := json.Marshal(result.Response)
		require.NoError(t, err)
		outputs = append(outputs, string(body))
	}
	require.Equal(t, outputs[0], outputs[1])
	require.Equal(t, outputs[1], outputs[2])
}

func TestBuildPrompt(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	prompt := buildPrompt("a laptop for travel", cat.All())

	require.Contains(t, prompt, `User Query: "a laptop for travel"`)
	require.Contains(t, prompt, "Product Catalog:")
	require.Contains(t, prompt, "valid JSON only")
	require.Contains(t, prompt, `"query_analysis"`)

	// Every product's id and name are embedded.
	for _, p := range cat.All() {
		require.Contains(t, prompt, `"id": "`+p.ID+`"`)
		require.True(t, strings.Contains(prompt, p.Name), "prompt missing product %s", p.Name)
	}
}

func TestGetRecommendationsCacheExpiryReinvokesRemote(t *testing.T) {
	completer := &fakeCompleter{responses: []fakeReply{
		{text: modelReply("first", "1", "2", "3")},
		{text: modelReply("second", "6", "7", "8")},
	}}

	cat, err := catalog.Load()
	require.NoError(t, err)
	memCache := cache.NewMemoryCache(5*time.Minute, 20)
	svc := New(cat, memCache, completer, fallback.New(), nil)
	ctx := context.Background()

	first := svc.GetRecommendations(ctx, "something nice")
	require.Equal(t, "first", first.Response.QueryAnalysis)

	// A nanosecond TTL makes every entry expired by the next call.
	expired := cache.NewMemoryCache(time.Nanosecond, 20)
	svc = New(cat, expired, completer, fallback.New(), nil)

	a := svc.GetRecommendations(ctx, "something nice")
	require.Equal(t, "second", a.Response.QueryAnalysis)
	time.Sleep(time.Millisecond)
	b := svc.GetRecommendations(ctx, "something nice")
	require.Equal(t, OriginModel, b.Origin, "expired entry must re-invoke the remote path")
}
