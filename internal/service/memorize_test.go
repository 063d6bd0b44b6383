package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func llmServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestValidate_ParsesCleanJSON(t *testing.T) {
	srv := llmServer(t, `{"score":92,"is_valid":true,"feedback":"Nearly word perfect."}`)
	defer srv.Close()

	svc := NewMemorizeService(srv.URL, "key", "test-model")
	v := svc.Validate(context.Background(), "original", "attempt", "jo 3:16")
	assert.Equal(t, 92, v.Score)
	assert.True(t, v.IsValid)
	assert.Equal(t, "Nearly word perfect.", v.Feedback)
}

func TestValidate_ExtractsJSONFromSurroundingText(t *testing.T) {
	srv := llmServer(t, "Sure! Here is the grade:\n```json\n{\"score\":40,\"is_valid\":false,\"feedback\":\"Several words missing.\"}\n```\nHope that helps.")
	defer srv.Close()

	svc := NewMemorizeService(srv.URL, "key", "test-model")
	v := svc.Validate(context.Background(), "original", "attempt", "jo 3:16")
	assert.Equal(t, 40, v.Score)
	assert.False(t, v.IsValid)
	assert.Equal(t, "Several words missing.", v.Feedback)
}

func TestValidate_FailSafeOnUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewMemorizeService(srv.URL, "key", "test-model")
	v := svc.Validate(context.Background(), "original", "attempt", "jo 3:16")
	assert.Equal(t, 0, v.Score)
	assert.False(t, v.IsValid)
	assert.NotEmpty(t, v.Feedback)
}

func TestValidate_FailSafeOnNonJSONReply(t *testing.T) {
	srv := llmServer(t, "I cannot grade this recitation.")
	defer srv.Close()

	svc := NewMemorizeService(srv.URL, "key", "test-model")
	v := svc.Validate(context.Background(), "original", "attempt", "jo 3:16")
	assert.Equal(t, 0, v.Score)
	assert.False(t, v.IsValid)
}

func TestValidate_ClampsScore(t *testing.T) {
	srv := llmServer(t, `{"score":150,"is_valid":true,"feedback":"ok"}`)
	defer srv.Close()

	svc := NewMemorizeService(srv.URL, "key", "test-model")
	v := svc.Validate(context.Background(), "original", "attempt", "jo 3:16")
	assert.Equal(t, 100, v.Score)
}

func TestFirstJSONObject(t *testing.T) {
	require.Equal(t, `{"a":1}`, firstJSONObject(`{"a":1}`))
	require.Equal(t, `{"a":{"b":2}}`, firstJSONObject(`noise {"a":{"b":2}} trailing {"c":3}`))
	require.Equal(t, `{"a":"br}ace"}`, firstJSONObject(`{"a":"br}ace"}`), "braces inside strings do not close the object")
	require.Equal(t, `{"a":"q\"uote}"}`, firstJSONObject(`{"a":"q\"uote}"}`))
	require.Equal(t, "", firstJSONObject("no json here"))
	require.Equal(t, "", firstJSONObject(`{"unterminated":`))
}
