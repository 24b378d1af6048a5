package tts

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ESpeakEngine uses eSpeak/eSpeak-NG to write narration WAVs. Robotic,
// but fully offline.
type ESpeakEngine struct {
	path  string
	voice string
	speed float64
}

func newESpeakEngine(config Config) (*ESpeakEngine, error) {
	path, err := findESpeakExecutable()
	if err != nil {
		return nil, fmt.Errorf("eSpeak not found: %w", err)
	}
	if err := exec.Command(path, "--version").Run(); err != nil {
		return nil, fmt.Errorf("eSpeak test failed: %w", err)
	}
	return &ESpeakEngine{path: path, voice: config.Voice, speed: config.Speed}, nil
}

func findESpeakExecutable() (string, error) {
	for _, candidate := range []string{"espeak-ng", "espeak"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("eSpeak executable not found in PATH")
}

func (e *ESpeakEngine) Name() string      { return EngineTypeESpeak.String() }
func (e *ESpeakEngine) OutputExt() string { return ".wav" }

func (e *ESpeakEngine) SynthesizeFile(ctx context.Context, text, outPath string) error {
	args := []string{"-w", outPath}
	if e.voice != "" && !strings.Contains(e.voice, "Neural") {
		args = append(args, "-v", e.voice)
	}
	// Words per minute, eSpeak default is 175.
	args = append(args, "-s", strconv.Itoa(int(175*e.speed)))
	args = append(args, text)

	out, err := exec.CommandContext(ctx, e.path, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("eSpeak failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ListVoices parses `espeak --voices` output.
func (e *ESpeakEngine) ListVoices() ([]string, error) {
	output, err := exec.Command(e.path, "--voices").Output()
	if err != nil {
		return nil, err
	}
	return parseESpeakVoices(string(output)), nil
}

func parseESpeakVoices(output string) []string {
	var voices []string
	for i, line := range strings.Split(output, "\n") {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		// Pty Language Age/Gender VoiceName File Other
		fields := strings.Fields(line)
		if len(fields) >= 4 {
			voices = append(voices, fields[3])
		}
	}
	return voices
}
