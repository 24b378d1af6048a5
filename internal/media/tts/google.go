package tts

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"github.com/sirupsen/logrus"
	texttospeechpb "google.golang.org/genproto/googleapis/cloud/texttospeech/v1"
)

// chunkLimit stays a little under the API's 5000-byte input cap.
const chunkLimit = 4800

// GoogleEngine synthesizes narration through Google Cloud TTS. Chunks
// are cached by content hash so regenerating media for the same story
// does not re-bill the API.
type GoogleEngine struct {
	client   *texttospeech.Client
	voice    string
	speed    float64
	cacheDir string
	log      *logrus.Entry
}

func newGoogleEngine(config Config, cacheDir string) (*GoogleEngine, error) {
	client, err := texttospeech.NewClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("create tts client: %w", err)
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create tts cache dir: %w", err)
	}
	voice := config.Voice
	if voice == "" {
		voice = "en-US-Chirp3-HD-Charon"
	}
	return &GoogleEngine{
		client:   client,
		voice:    voice,
		speed:    config.Speed,
		cacheDir: cacheDir,
		log:      logrus.WithField("engine", "google"),
	}, nil
}

func (g *GoogleEngine) Name() string      { return EngineTypeGoogle.String() }
func (g *GoogleEngine) OutputExt() string { return ".mp3" }

// SetVoice overrides the configured voice. The rate arrives in the
// edge-tts percentage form ("-10%") and maps onto SpeakingRate.
func (g *GoogleEngine) SetVoice(voice, rate string) {
	if voice != "" {
		g.voice = voice
	}
	if rate != "" {
		if n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(rate, "+"), "%")); err == nil {
			g.speed = 1.0 + float64(n)/100
		}
	}
}

func (g *GoogleEngine) SynthesizeFile(ctx context.Context, text, outPath string) error {
	chunks := splitIntoChunks(text, chunkLimit)
	contentHash := md5Hash(text + g.voice)[:8]

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	defer out.Close()

	for i, chunk := range chunks {
		chunkPath := filepath.Join(g.cacheDir, fmt.Sprintf("%s_%d.mp3", contentHash, i))
		audio, err := g.chunkAudio(ctx, chunk, chunkPath)
		if err != nil {
			return fmt.Errorf("synthesize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if _, err := out.Write(audio); err != nil {
			return fmt.Errorf("append chunk %d: %w", i, err)
		}
	}
	return nil
}

// chunkAudio returns cached MP3 bytes for a chunk, synthesizing and
// caching on miss. MP3 frames concatenate cleanly, so chunk files can
// be appended directly.
func (g *GoogleEngine) chunkAudio(ctx context.Context, chunk, chunkPath string) ([]byte, error) {
	if audio, err := os.ReadFile(chunkPath); err == nil && len(audio) > 0 {
		g.log.WithField("chunk", filepath.Base(chunkPath)).Debug("tts cache hit")
		return audio, nil
	}

	audioCfg := &texttospeechpb.AudioConfig{
		AudioEncoding: texttospeechpb.AudioEncoding_MP3,
	}
	// Chirp voices reject speakingRate and SSML, skip the knobs there.
	if !strings.Contains(strings.ToLower(g.voice), "chirp") {
		audioCfg.SpeakingRate = g.speed
	}

	resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: chunk},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: languageCode(g.voice),
			Name:         g.voice,
		},
		AudioConfig: audioCfg,
	})
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(chunkPath, resp.AudioContent, 0644); err != nil {
		g.log.WithError(err).Warn("could not cache tts chunk")
	}
	return resp.AudioContent, nil
}

// ListVoices returns the voice names the service offers.
func (g *GoogleEngine) ListVoices(ctx context.Context) ([]string, error) {
	resp, err := g.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{})
	if err != nil {
		return nil, err
	}
	voices := make([]string, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		voices = append(voices, v.Name)
	}
	return voices, nil
}

// Close releases the underlying gRPC connection.
func (g *GoogleEngine) Close() error { return g.client.Close() }

// languageCode derives "en-US" from a voice name like
// "en-US-Chirp3-HD-Charon".
func languageCode(voice string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) >= 2 {
		return parts[0] + "-" + parts[1]
	}
	return "en-US"
}

func md5Hash(s string) string {
	h := md5.New()
	io.WriteString(h, s)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func splitIntoChunks(text string, limit int) []string {
	var chunks []string
	runes := []rune(text)
	for i := 0; i < len(runes); i += limit {
		end := i + limit
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
