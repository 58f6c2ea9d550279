package embedding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmbeddingServer(t *testing.T, gotPath *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"embedding":[3,4]}]}`))
	}))
}

func TestOpenAIEmbedRequestPath(t *testing.T) {
	var gotPath string
	server := newEmbeddingServer(t, &gotPath)
	defer server.Close()

	p := NewOpenAIProvider(Config{BaseURL: server.URL, Model: "test-embed", Dimensions: 2, TimeoutSecs: 5})
	vec, err := p.Embed(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "/v1/embeddings", gotPath)
	// Responses are unit-normalized.
	require.Len(t, vec, 2)
	assert.InDelta(t, 0.6, vec[0], 1e-6)
	assert.InDelta(t, 0.8, vec[1], 1e-6)
}

func TestOpenAIEmbedRequestPathWithV1SuffixedBase(t *testing.T) {
	var gotPath string
	server := newEmbeddingServer(t, &gotPath)
	defer server.Close()

	p := NewOpenAIProvider(Config{BaseURL: server.URL + "/v1", Dimensions: 2, TimeoutSecs: 5})
	_, err := p.Embed(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "/v1/embeddings", gotPath)
}
