package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClientValidatesBaseURL(t *testing.T) {
	cases := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"valid", "https://api.openai.com/v1", false},
		{"trailing slash", "https://api.openai.com/v1/", false},
		{"missing scheme", "api.openai.com/v1", true},
		{"garbage", "://not a url", true},
		{"empty", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewClient(tc.baseURL, "key")
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateChatCompletion(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Len(t, req.Messages, 2)

		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/", "secret-key")
	assert.NoError(t, err)

	out, err := client.CreateChatCompletion(context.Background(), "test-model", "be helpful", "hi")
	assert.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "/chat/completions", gotPath)
}

func TestCreateChatCompletionServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "bad-key")
	assert.NoError(t, err)

	_, err = client.CreateChatCompletion(context.Background(), "m", "s", "u")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestCreateChatCompletionNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "key")
	assert.NoError(t, err)

	_, err = client.CreateChatCompletion(context.Background(), "m", "s", "u")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestCreateChatCompletionNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "key")
	assert.NoError(t, err)

	out, err := client.CreateChatCompletion(context.Background(), "m", "s", "u")
	assert.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestCreateChatCompletionContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "key")
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.CreateChatCompletion(ctx, "m", "s", "u")
	assert.Error(t, err)
}
