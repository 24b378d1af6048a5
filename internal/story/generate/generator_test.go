package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storyweave/internal/story"
)

func chatReply(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func testGenerator(url string) *Generator {
	g := New(url, "test-model", "test-key", 5*time.Second)
	g.retryDelay = time.Millisecond
	return g
}

func TestGenerateParsesResponse(t *testing.T) {
	const reply = "TITLE: The Lantern Keeper\n\nSTORY:\nAn old keeper lit lanterns along the cliff road.\n\nMORAL: Small lights guide great journeys."

	var gotReq struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		TopP        float64 `json:"top_p"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("auth = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(chatReply(reply)))
	}))
	defer srv.Close()

	g := testGenerator(srv.URL)
	rec := g.Generate(context.Background(), story.Request{
		Prompt: "a cliff road", Culture: "japanese", StoryType: "mythology",
	})

	if rec.Failed {
		t.Fatalf("unexpected failure: %q", rec.Body)
	}
	if rec.Title != "The Lantern Keeper" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.Moral != "Small lights guide great journeys." {
		t.Errorf("Moral = %q", rec.Moral)
	}
	if rec.Culture != "japanese" {
		t.Errorf("Culture = %q", rec.Culture)
	}

	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.Temperature != 0.5 || gotReq.TopP != 0.7 {
		t.Errorf("mythology sampling = %v/%v, want 0.5/0.7", gotReq.Temperature, gotReq.TopP)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestGenerateRetriesOnServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(chatReply("TITLE: Third Time\n\nSTORY:\nIt worked.\n\nMORAL: Persist.")))
	}))
	defer srv.Close()

	rec := testGenerator(srv.URL).Generate(context.Background(), story.Request{})
	if rec.Failed {
		t.Fatalf("expected success after retries, got %q", rec.Body)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestGenerateFailsClosedOnBadRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"model not found"}}`))
	}))
	defer srv.Close()

	rec := testGenerator(srv.URL).Generate(context.Background(), story.Request{Culture: "greek"})
	if !rec.Failed {
		t.Fatal("expected a failed record")
	}
	if calls != 1 {
		t.Errorf("4xx should not be retried, calls = %d", calls)
	}
	if !strings.Contains(rec.Body, "model not found") {
		t.Errorf("Body = %q", rec.Body)
	}
	if rec.Culture != "greek" {
		t.Errorf("Culture = %q", rec.Culture)
	}
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	g := New("http://localhost:0", "m", "", time.Second)
	rec := g.Generate(context.Background(), story.Request{})
	if !rec.Failed {
		t.Fatal("expected a failed record without an API key")
	}
	if !strings.Contains(rec.Body, "GROQ_API_KEY") {
		t.Errorf("Body = %q", rec.Body)
	}
	if g.Configured() {
		t.Error("Configured() = true without a key")
	}
}
