package openaicompat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-tutoring-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompletionServer(t *testing.T, gotPath *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"4"}}]}`))
	}))
}

func TestChatRequestPath(t *testing.T) {
	var gotPath string
	server := newCompletionServer(t, &gotPath)
	defer server.Close()

	p := NewProvider(server.URL, "test-model", "", 5)
	answer, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "2+2?"}})
	require.NoError(t, err)

	assert.Equal(t, "4", answer)
	assert.Equal(t, "/v1/chat/completions", gotPath)
}

func TestChatRequestPathWithV1SuffixedBase(t *testing.T) {
	var gotPath string
	server := newCompletionServer(t, &gotPath)
	defer server.Close()

	p := NewProvider(server.URL+"/v1", "test-model", "", 5)
	_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "2+2?"}})
	require.NoError(t, err)

	assert.Equal(t, "/v1/chat/completions", gotPath)
}
