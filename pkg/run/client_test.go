package run

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/pipet/pkg/protocol"
)

func TestClient_PostsCommand(t *testing.T) {
	var got protocol.Command
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/commands", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := &Client{baseURL: srv.URL, http: srv.Client()}
	cmd := protocol.Command{Op: protocol.OpAspirate, Volume: 20, Slot: 9, Well: "A1"}
	require.NoError(t, client.Execute(context.Background(), cmd))
	assert.Equal(t, cmd, got)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "deck not calibrated", http.StatusConflict)
	}))
	defer srv.Close()

	client := &Client{baseURL: srv.URL, http: srv.Client()}
	err := client.Execute(context.Background(), protocol.Command{Op: protocol.OpPickUpTip, Slot: 8})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deck not calibrated")
}
