package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetChapter_PrimaryAnswers(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gn/1", r.URL.Path)
		w.Write([]byte(`{"verses":[{"number":1,"text":"In the beginning"},{"number":2,"text":"And the earth"}]}`))
	}))
	defer primary.Close()

	svc := NewBibleService(primary.URL, "http://127.0.0.1:1")
	ch, err := svc.GetChapter(context.Background(), "gn", 1)
	require.NoError(t, err)
	assert.Equal(t, "gn", ch.Book)
	assert.Equal(t, 1, ch.Chapter)
	require.Len(t, ch.Verses, 2)
	assert.Equal(t, 1, ch.Verses[0].Number)
	assert.Equal(t, "In the beginning", ch.Verses[0].Text)
}

func TestGetChapter_FallsBackToSecondary(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer primary.Close()

	// secondary numbers verses with "verse" instead of "number"
	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"verses":[{"verse":1,"text":"In the beginning"}]}`))
	}))
	defer secondary.Close()

	svc := NewBibleService(primary.URL, secondary.URL)
	ch, err := svc.GetChapter(context.Background(), "gn", 1)
	require.NoError(t, err, "a single upstream failure must recover transparently")
	require.Len(t, ch.Verses, 1)
	assert.Equal(t, 1, ch.Verses[0].Number)
}

func TestGetChapter_AllUpstreamsFail(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer primary.Close()
	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer secondary.Close()

	svc := NewBibleService(primary.URL, secondary.URL)
	_, err := svc.GetChapter(context.Background(), "gn", 1)
	assert.ErrorIs(t, err, ErrUpstreamExhausted)
}

func TestGetChapter_EmptyVersesIsFailure(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"verses":[]}`))
	}))
	defer primary.Close()
	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"verses":[{"verse":1,"text":"fallback text"}]}`))
	}))
	defer secondary.Close()

	svc := NewBibleService(primary.URL, secondary.URL)
	ch, err := svc.GetChapter(context.Background(), "gn", 1)
	require.NoError(t, err)
	assert.Equal(t, "fallback text", ch.Verses[0].Text)
}
