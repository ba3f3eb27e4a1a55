package recipeai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, func()) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv.Close
}

func TestAskReturnsMarkdownMessage(t *testing.T) {
	client, closeFn := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "42", req["user_id"])
		assert.Equal(t, "normal", req["spiciness"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"markdown_message": "Try kimchi stew.",
			"message":          "fallback",
		})
	})
	defer closeFn()

	answer := client.Ask(context.Background(), 42, "dinner ideas")
	assert.Equal(t, "Try kimchi stew.", answer)
}

func TestAskAppendsSuggestions(t *testing.T) {
	client, closeFn := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":     "Stew it is.",
			"suggestions": []string{"a", "b", "c", "d", "e", "f", "g"},
		})
	})
	defer closeFn()

	answer := client.Ask(context.Background(), 1, "hi")
	assert.Contains(t, answer, "Stew it is.")
	assert.Contains(t, answer, "Suggestions:\n- a")
	assert.Contains(t, answer, "- e")
	assert.NotContains(t, answer, "- f") // максимум пять подсказок
}

func TestAskErrorStatus(t *testing.T) {
	client, closeFn := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	defer closeFn()

	answer := client.Ask(context.Background(), 1, "hi")
	assert.Contains(t, answer, "Recipe AI error: 502")
	assert.Contains(t, answer, "boom")
}

func TestAskPlainTextPassthrough(t *testing.T) {
	client, closeFn := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("plain answer"))
	})
	defer closeFn()

	assert.Equal(t, "plain answer", client.Ask(context.Background(), 1, "hi"))
}

func TestAskUnexpectedFormat(t *testing.T) {
	client, closeFn := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"recipes": [], "meta": {}}`))
	})
	defer closeFn()

	answer := client.Ask(context.Background(), 1, "hi")
	assert.Contains(t, answer, "unexpected response format")
	assert.Contains(t, answer, "keys=")
}

func TestAskServerUnreachable(t *testing.T) {
	client, closeFn := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	closeFn() // сервер уже погашен

	answer := client.Ask(context.Background(), 1, "hi")
	assert.Equal(t, "Recipe AI server is not reachable. Please check that the server is running.", answer)
}
