package tts

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// SayEngine wraps the macOS `say` command.
type SayEngine struct {
	voice string
	speed float64
}

func newSayEngine(config Config) *SayEngine {
	return &SayEngine{voice: config.Voice, speed: config.Speed}
}

func (s *SayEngine) Name() string      { return EngineTypeSay.String() }
func (s *SayEngine) OutputExt() string { return ".aiff" }

func (s *SayEngine) SynthesizeFile(ctx context.Context, text, outPath string) error {
	args := []string{"-o", outPath}
	if s.voice != "" && !strings.Contains(s.voice, "Neural") {
		args = append(args, "-v", s.voice)
	}
	// say rates are words per minute around a default of 175.
	args = append(args, "-r", fmt.Sprintf("%d", int(175*s.speed)))
	args = append(args, text)

	out, err := exec.CommandContext(ctx, "say", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("say failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
