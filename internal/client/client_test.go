package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSendsSessionID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sess-42", req["session_id"])
		_ = json.NewEncoder(w).Encode(Answer{Answer: "ok"})
	}))
	defer srv.Close()

	c := New(srv.URL, "sess-42")
	ans, err := c.Chat("hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", ans.Answer)
}

func TestChatSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "vector index not ready"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, "s").Chat("hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector index not ready")
}

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Status{Ready: true, Chunks: 12, Summary: "overview"})
	}))
	defer srv.Close()

	st, err := New(srv.URL, "s").Status()
	require.NoError(t, err)
	assert.True(t, st.Ready)
	assert.Equal(t, 12, st.Chunks)
}
