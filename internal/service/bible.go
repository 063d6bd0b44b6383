package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"daily-bread/internal/logger"
)

// ErrUpstreamExhausted means every configured scripture provider failed.
// Single-provider failures are recovered transparently by falling back.
var ErrUpstreamExhausted = errors.New("all scripture providers failed")

type Verse struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// BibleChapter is the uniform shape returned to clients regardless of which
// upstream answered.
type BibleChapter struct {
	Book    string  `json:"book"`
	Chapter int     `json:"chapter"`
	Verses  []Verse `json:"verses"`
}

// BibleService proxies chapter text from a primary upstream with a secondary
// fallback, normalizing both providers' responses.
type BibleService struct {
	upstreams []string
	client    *http.Client
}

func NewBibleService(primaryURL, secondaryURL string) *BibleService {
	var upstreams []string
	for _, u := range []string{primaryURL, secondaryURL} {
		if u != "" {
			upstreams = append(upstreams, u)
		}
	}
	return &BibleService{upstreams: upstreams, client: &http.Client{}}
}

// GetChapter tries each upstream in order and returns the first successful
// normalized response.
func (s *BibleService) GetChapter(ctx context.Context, book string, chapter int) (*BibleChapter, error) {
	for _, base := range s.upstreams {
		ch, err := s.fetch(ctx, base, book, chapter)
		if err == nil {
			ch.Book = book
			ch.Chapter = chapter
			return ch, nil
		}
		logger.Warn("scripture upstream failed", "base", base, "book", book, "chapter", chapter, "err", err)
	}
	return nil, ErrUpstreamExhausted
}

// upstreamChapter tolerates both provider shapes: one numbers verses with
// "number", the other with "verse".
type upstreamChapter struct {
	Verses []struct {
		Number int    `json:"number"`
		Verse  int    `json:"verse"`
		Text   string `json:"text"`
	} `json:"verses"`
}

func (s *BibleService) fetch(ctx context.Context, base, book string, chapter int) (*BibleChapter, error) {
	url := fmt.Sprintf("%s/%s/%d", base, book, chapter)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch chapter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, data)
	}

	var raw upstreamChapter
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode chapter: %w", err)
	}
	if len(raw.Verses) == 0 {
		return nil, fmt.Errorf("empty verses")
	}

	verses := make([]Verse, 0, len(raw.Verses))
	for i, v := range raw.Verses {
		n := v.Number
		if n == 0 {
			n = v.Verse
		}
		if n == 0 {
			n = i + 1
		}
		verses = append(verses, Verse{Number: n, Text: v.Text})
	}
	return &BibleChapter{Verses: verses}, nil
}
