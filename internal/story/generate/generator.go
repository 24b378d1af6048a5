package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"storyweave/internal/story"
	"storyweave/internal/story/parse"
	"storyweave/internal/story/prompt"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second
)

// Generator turns story requests into parsed Records by calling an
// OpenAI-compatible chat-completions endpoint.
type Generator struct {
	client     *http.Client
	baseURL    string
	model      string
	apiKey     string
	maxRetries int
	retryDelay time.Duration
	log        *logrus.Entry
}

// New builds a Generator against the given endpoint. baseURL is the API
// root, e.g. https://api.groq.com/openai/v1.
func New(baseURL, model, apiKey string, timeout time.Duration) *Generator {
	return &Generator{
		client:     &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		log:        logrus.WithField("component", "generator"),
	}
}

var (
	defaultOnce sync.Once
	defaultGen  *Generator
)

// Default returns the process-wide generator configured from viper and
// the GROQ_API_KEY environment variable.
func Default() *Generator {
	defaultOnce.Do(func() {
		defaultGen = New(
			viper.GetString("generation.base_url"),
			viper.GetString("generation.model"),
			os.Getenv("GROQ_API_KEY"),
			time.Duration(viper.GetInt("generation.timeout_seconds"))*time.Second,
		)
	})
	return defaultGen
}

// Configured reports whether the generator has an API key to send.
func (g *Generator) Configured() bool { return g.apiKey != "" }

// Generate produces a story Record for the request. It never returns an
// error: failures yield a Record with Failed set and the reason in the
// body, so downstream stages and API handlers have one shape to handle.
func (g *Generator) Generate(ctx context.Context, req story.Request) story.Record {
	system, user, sampling := prompt.Compose(req)

	raw, err := g.complete(ctx, system, user, sampling)
	if err != nil {
		g.log.WithError(err).Error("story generation failed")
		return failedRecord(req, err)
	}

	rec := parse.Parse(raw, req)
	g.log.WithFields(logrus.Fields{
		"title":   rec.Title,
		"scenes":  len(rec.Scenes),
		"culture": rec.Culture,
	}).Info("story generated")
	return rec
}

func failedRecord(req story.Request, err error) story.Record {
	rec := story.Record{
		Title:    "Generation Failed",
		Body:     fmt.Sprintf("Story generation failed: %v", err),
		Culture:  req.Culture,
		Language: req.Language,
		Failed:   true,
	}
	if rec.Culture == "" {
		rec.Culture = "indian"
	}
	if rec.Language == "" {
		rec.Language = story.DefaultLanguage
	}
	return rec
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.status, e.message)
}

func retryable(err error) bool {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.status == http.StatusTooManyRequests || ae.status >= 500
	}
	// Transport errors are worth one more try.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (g *Generator) complete(ctx context.Context, system, user string, s prompt.Sampling) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("GROQ_API_KEY is not set")
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			delay := g.retryDelay << (attempt - 1)
			g.log.WithFields(logrus.Fields{
				"attempt": attempt,
				"delay":   delay,
			}).Warn("retrying generation request")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		content, err := g.doRequest(ctx, system, user, s)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retryable(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("retries exhausted: %w", lastErr)
}

func (g *Generator) doRequest(ctx context.Context, system, user string, s prompt.Sampling) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: s.Temperature,
		TopP:        s.TopP,
		MaxTokens:   s.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &parsed) == nil && parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", &apiError{status: resp.StatusCode, message: msg}
	}

	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("response has no choices")
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("response content is empty")
	}
	return content, nil
}
