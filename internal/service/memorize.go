package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"daily-bread/internal/logger"
)

// MemorizeService scores a user's from-memory recitation of a verse against
// the original text using an LLM with an enforced JSON response contract.
type MemorizeService struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewMemorizeService(baseURL, apiKey, model string) *MemorizeService {
	return &MemorizeService{baseURL: baseURL, apiKey: apiKey, model: model, client: &http.Client{}}
}

type Validation struct {
	Score    int    `json:"score"`
	IsValid  bool   `json:"is_valid"`
	Feedback string `json:"feedback"`
}

const validateSystemPrompt = `You grade Bible memorization attempts. Compare the user's recitation to the original text, tolerating punctuation and capitalization differences but not changed or missing words. Return JSON: {"score":0-100,"is_valid":true|false,"feedback":"one short sentence"}. is_valid means score >= 85. Return only JSON.`

// Validate never fails: any upstream or parse problem degrades to the
// fail-safe "not valid" result so the client can offer a manual retry.
func (s *MemorizeService) Validate(ctx context.Context, original, attempt, reference string) *Validation {
	user := fmt.Sprintf("Reference: %s\nOriginal: %s\nRecitation: %s", reference, original, attempt)

	result, err := s.chat(ctx, validateSystemPrompt, user)
	if err != nil {
		logger.Warn("memorize validation failed", "reference", reference, "err", err)
		return failSafe()
	}

	obj := firstJSONObject(result)
	if obj == "" {
		logger.Warn("memorize validation returned no JSON", "reference", reference)
		return failSafe()
	}

	var v Validation
	if err := json.Unmarshal([]byte(obj), &v); err != nil {
		logger.Warn("memorize validation JSON malformed", "reference", reference, "err", err)
		return failSafe()
	}
	if v.Score < 0 {
		v.Score = 0
	}
	if v.Score > 100 {
		v.Score = 100
	}
	return &v
}

func failSafe() *Validation {
	return &Validation{Score: 0, IsValid: false, Feedback: "Could not validate right now, please try again."}
}

func (s *MemorizeService) chat(ctx context.Context, system, user string) (string, error) {
	body := map[string]interface{}{
		"model":  s.model,
		"stream": false,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("llm status %d: %s", resp.StatusCode, data)
	}

	data, _ := io.ReadAll(resp.Body)
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices")
	}
	return result.Choices[0].Message.Content, nil
}

// firstJSONObject extracts the first balanced top-level JSON object from a
// string, skipping any surrounding prose the model may have added.
func firstJSONObject(s string) string {
	depth := 0
	start := -1
	inString := false
	escaped := false
	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
