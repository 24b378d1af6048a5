package tts

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// EdgeEngine shells out to the edge-tts CLI for Microsoft neural
// voices. Free, no credentials, needs network.
type EdgeEngine struct {
	path  string
	voice string
	rate  string
	log   *logrus.Entry
}

func newEdgeEngine(config Config) (*EdgeEngine, error) {
	path, err := exec.LookPath("edge-tts")
	if err != nil {
		return nil, fmt.Errorf("edge-tts not found in PATH: %w", err)
	}
	voice := config.Voice
	if voice == "" {
		voice = "en-US-JennyNeural"
	}
	return &EdgeEngine{
		path:  path,
		voice: voice,
		rate:  speedToRate(config.Speed),
		log:   logrus.WithField("engine", "edge"),
	}, nil
}

func (e *EdgeEngine) Name() string      { return EngineTypeEdge.String() }
func (e *EdgeEngine) OutputExt() string { return ".mp3" }

// SetVoice overrides the configured voice, e.g. from MoodVoice.
func (e *EdgeEngine) SetVoice(voice, rate string) {
	if voice != "" {
		e.voice = voice
	}
	if rate != "" {
		e.rate = rate
	}
}

func (e *EdgeEngine) SynthesizeFile(ctx context.Context, text, outPath string) error {
	cmd := exec.CommandContext(ctx, e.path,
		"--voice", e.voice,
		"--rate="+e.rate,
		"--text", text,
		"--write-media", outPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("edge-tts failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	e.log.WithFields(logrus.Fields{"voice": e.voice, "out": outPath}).Debug("narration synthesized")
	return nil
}

// speedToRate converts a 1.0-centred multiplier to the percentage form
// edge-tts expects, e.g. 1.1 to "+10%".
func speedToRate(speed float64) string {
	if speed <= 0 {
		speed = 1.0
	}
	return fmt.Sprintf("%+d%%", int((speed-1.0)*100))
}
