package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"storyweave/internal/culture"
	"storyweave/internal/media/assemble"
	"storyweave/internal/story"
	"storyweave/internal/story/library"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGen struct {
	rec        story.Record
	configured bool
}

func (f fakeGen) Generate(context.Context, story.Request) story.Record { return f.rec }
func (f fakeGen) Configured() bool                                     { return f.configured }

type fakeTTS struct {
	err   error
	voice string
	rate  string
}

func (f *fakeTTS) OutputExt() string { return ".mp3" }
func (f *fakeTTS) SetVoice(voice, rate string) {
	f.voice, f.rate = voice, rate
}
func (f *fakeTTS) SynthesizeFile(_ context.Context, _, outPath string) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outPath, []byte("mp3"), 0644)
}

type fakeAssembler struct {
	res assemble.Result
	err error
}

func (f fakeAssembler) Assemble(context.Context, story.Record) (assemble.Result, error) {
	return f.res, f.err
}

func testServer(t *testing.T, gen StoryGenerator, asm MediaAssembler) (*Server, string) {
	t.Helper()
	s, dir, _ := testServerTTS(t, gen, asm)
	return s, dir
}

func testServerTTS(t *testing.T, gen StoryGenerator, asm MediaAssembler) (*Server, string, *fakeTTS) {
	t.Helper()
	dir := t.TempDir()
	store, err := library.NewStore(filepath.Join(dir, "stories.json"))
	if err != nil {
		t.Fatal(err)
	}
	engine := &fakeTTS{}
	return New(gen, engine, asm, store, dir), dir, engine
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCultures(t *testing.T) {
	s, _ := testServer(t, fakeGen{}, fakeAssembler{})
	w := doJSON(t, s.Router(), http.MethodGet, "/api/cultures", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Cultures []string                 `json:"cultures"`
		Themes   map[string]culture.Theme `json:"themes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Cultures) < 8 {
		t.Errorf("cultures = %v", resp.Cultures)
	}
	if resp.Themes["indian"].Accent != "#FF6B35" {
		t.Errorf("themes = %+v", resp.Themes["indian"])
	}
}

func TestCheckConfig(t *testing.T) {
	s, _ := testServer(t, fakeGen{configured: true}, fakeAssembler{})
	w := doJSON(t, s.Router(), http.MethodGet, "/api/check-config", nil)
	var resp struct {
		Configured bool `json:"configured"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Configured {
		t.Error("configured = false")
	}
}

func TestGenerateStory(t *testing.T) {
	rec := story.Record{Title: "The River", Body: "text", Culture: "indian", Language: "English"}
	s, _ := testServer(t, fakeGen{rec: rec, configured: true}, fakeAssembler{})
	r := s.Router()

	w := doJSON(t, r, http.MethodPost, "/api/generate-story", story.Request{Prompt: "a river"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var got story.Record
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Title != "The River" {
		t.Errorf("title = %q", got.Title)
	}
	if got.ID == "" {
		t.Error("story should be saved with an ID")
	}

	// Saved story is listable and fetchable.
	w = doJSON(t, r, http.MethodGet, "/api/stories", nil)
	var list struct {
		Stories []library.Entry `json:"stories"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Stories) != 1 {
		t.Fatalf("stories = %d", len(list.Stories))
	}

	w = doJSON(t, r, http.MethodGet, "/api/stories/"+got.ID, nil)
	if w.Code != http.StatusOK {
		t.Errorf("get story status = %d", w.Code)
	}
}

func TestGenerateStoryValidation(t *testing.T) {
	s, _ := testServer(t, fakeGen{}, fakeAssembler{})
	w := doJSON(t, s.Router(), http.MethodPost, "/api/generate-story", story.Request{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestGenerateStoryUpstreamFailure(t *testing.T) {
	rec := story.Record{Title: "Generation Failed", Body: "Story generation failed: boom", Failed: true}
	s, _ := testServer(t, fakeGen{rec: rec}, fakeAssembler{})
	w := doJSON(t, s.Router(), http.MethodPost, "/api/generate-story", story.Request{Prompt: "x"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("error")) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestGenerateAudio(t *testing.T) {
	s, dir := testServer(t, fakeGen{}, fakeAssembler{})
	w := doJSON(t, s.Router(), http.MethodPost, "/api/generate-audio",
		map[string]string{"text": "hello world", "title": "My Tale"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success  bool   `json:"success"`
		AudioURL string `json:"audio_url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.AudioURL != "/outputs/My_Tale_audio.mp3" {
		t.Errorf("resp = %+v", resp)
	}
	if _, err := os.Stat(filepath.Join(dir, "My_Tale_audio.mp3")); err != nil {
		t.Errorf("audio file missing: %v", err)
	}
}

func TestGenerateAudioVoiceSelection(t *testing.T) {
	s, _, engine := testServerTTS(t, fakeGen{}, fakeAssembler{})
	r := s.Router()

	// A display name from the voice table resolves to its identifier.
	w := doJSON(t, r, http.MethodPost, "/api/generate-audio",
		map[string]string{"text": "hello world", "title": "t", "voice": "Sonia (UK, Expressive)"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if engine.voice != "en-GB-SoniaNeural" {
		t.Errorf("voice = %q", engine.voice)
	}

	// Without a requested voice the text's mood decides.
	w = doJSON(t, r, http.MethodPost, "/api/generate-audio",
		map[string]string{"text": "Dark sorrow and grief filled the cursed valley under the storm.", "title": "t"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if engine.voice != "en-GB-SoniaNeural" || engine.rate != "-10%" {
		t.Errorf("voice/rate = %q/%q, want dramatic narration", engine.voice, engine.rate)
	}
}

func TestGenerateAudioRequiresText(t *testing.T) {
	s, _ := testServer(t, fakeGen{}, fakeAssembler{})
	w := doJSON(t, s.Router(), http.MethodPost, "/api/generate-audio", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestGenerateVideo(t *testing.T) {
	res := assemble.Result{
		AudioPath: "/tmp/out/tale.mp3",
		VideoPath: "/tmp/out/tale.mp4",
		SRTPath:   "/tmp/out/tale.srt",
	}
	s, _ := testServer(t, fakeGen{}, fakeAssembler{res: res})
	body := map[string]any{
		"title": "Tale", "story": "text", "culture": "greek",
		"scenes": []string{"a"},
	}
	w := doJSON(t, s.Router(), http.MethodPost, "/api/generate-video", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["video_url"] != "/outputs/tale.mp4" || resp["audio_url"] != "/outputs/tale.mp3" {
		t.Errorf("resp = %v", resp)
	}
}

func TestGenerateVideoMissingFields(t *testing.T) {
	s, _ := testServer(t, fakeGen{}, fakeAssembler{})
	w := doJSON(t, s.Router(), http.MethodPost, "/api/generate-video",
		map[string]any{"title": "Tale"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestOutputs(t *testing.T) {
	s, dir := testServer(t, fakeGen{}, fakeAssembler{})
	if err := os.WriteFile(filepath.Join(dir, "tale.mp4"), []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}
	r := s.Router()

	w := doJSON(t, r, http.MethodGet, "/outputs/tale.mp4", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/outputs/missing.mp4", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing file status = %d", w.Code)
	}
}
