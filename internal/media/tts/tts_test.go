package tts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitIntoChunks(t *testing.T) {
	tests := []struct {
		textLen int
		limit   int
		want    int
	}{
		{100, 4800, 1},
		{4800, 4800, 1},
		{4801, 4800, 2},
		{12000, 4800, 3},
	}

	for _, tt := range tests {
		text := strings.Repeat("a", tt.textLen)
		chunks := splitIntoChunks(text, tt.limit)
		if len(chunks) != tt.want {
			t.Errorf("splitIntoChunks(len=%d) = %d chunks, want %d", tt.textLen, len(chunks), tt.want)
		}
		var total int
		for _, c := range chunks {
			total += len(c)
		}
		if total != tt.textLen {
			t.Errorf("chunks lost content: %d != %d", total, tt.textLen)
		}
	}
}

func TestLanguageCode(t *testing.T) {
	tests := []struct {
		voice string
		want  string
	}{
		{"en-US-Chirp3-HD-Charon", "en-US"},
		{"en-GB-SoniaNeural", "en-GB"},
		{"weird", "en-US"},
	}
	for _, tt := range tests {
		if got := languageCode(tt.voice); got != tt.want {
			t.Errorf("languageCode(%q) = %q, want %q", tt.voice, got, tt.want)
		}
	}
}

func TestSpeedToRate(t *testing.T) {
	tests := []struct {
		speed float64
		want  string
	}{
		{1.0, "+0%"},
		{1.1, "+10%"},
		{0.9, "-10%"},
		{0, "+0%"},
	}
	for _, tt := range tests {
		if got := speedToRate(tt.speed); got != tt.want {
			t.Errorf("speedToRate(%v) = %q, want %q", tt.speed, got, tt.want)
		}
	}
}

func TestAnalyzeMood(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"positive", "They laughed with joy and love under the bright warm sun, full of hope.", MoodPositive},
		{"dramatic", "Dark fear and death stalked the cruel storm, shadow upon shadow, grief everywhere.", MoodDramatic},
		{"neutral", "A man walked to the market and bought some rice.", MoodNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnalyzeMood(tt.text); got != tt.want {
				t.Errorf("AnalyzeMood = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMoodVoice(t *testing.T) {
	voice, rate := MoodVoice("A man walked to the market.")
	if voice != "en-US-JennyNeural" || rate != "+0%" {
		t.Errorf("neutral voice = %q/%q", voice, rate)
	}
}

func TestPickVoice(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		text      string
		wantVoice string
		wantRate  string
	}{
		{"display name resolves", "Sonia (UK, Expressive)", "anything", "en-GB-SoniaNeural", ""},
		{"raw id passes through", "en-AU-NatashaNeural", "anything", "en-AU-NatashaNeural", ""},
		{"mood fallback", "", "A man walked to the market.", "en-US-JennyNeural", "+0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			voice, rate := PickVoice(tt.requested, tt.text)
			if voice != tt.wantVoice || rate != tt.wantRate {
				t.Errorf("PickVoice = %q/%q, want %q/%q", voice, rate, tt.wantVoice, tt.wantRate)
			}
		})
	}
}

func TestMockEngineWritesPlayableWAV(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "narration.wav")

	eng := newMockEngine(Config{Speed: 1.0})
	if err := eng.SynthesizeFile(context.Background(), "ten words of story text spoken slowly over silent audio", out); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 44 {
		t.Fatalf("file too small: %d bytes", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE magic")
	}
	// 10 words at 0.4s/word is 4s of 22050Hz 16-bit mono.
	wantData := 4 * mockSampleRate * 2
	if len(data)-44 != wantData {
		t.Errorf("data length = %d, want %d", len(data)-44, wantData)
	}
}

func TestNewEngineRejectsUnknownType(t *testing.T) {
	if _, err := NewEngine(Config{Type: "gramophone"}); err == nil {
		t.Error("expected error for unknown engine type")
	}
}

func TestVoicesTableWellFormed(t *testing.T) {
	if len(Voices) == 0 {
		t.Fatal("no voices")
	}
	for name, id := range Voices {
		if !strings.Contains(id, "Neural") {
			t.Errorf("voice %q has non-neural id %q", name, id)
		}
		if !strings.Contains(id, "-") {
			t.Errorf("voice %q id %q missing locale", name, id)
		}
	}
}

func TestParseESpeakVoices(t *testing.T) {
	output := `Pty Language Age/Gender VoiceName          File          Other Languages
 5  af             M  afrikaans          other/af
 5  en-gb          M  english            en
`
	voices := parseESpeakVoices(output)
	if len(voices) != 2 || voices[0] != "afrikaans" || voices[1] != "english" {
		t.Errorf("parsed %v", voices)
	}
}
