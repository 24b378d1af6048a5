package probe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/faiface/beep/mp3"
	"github.com/sirupsen/logrus"
)

// ffprobeTimeout caps a single ffprobe invocation.
const ffprobeTimeout = 15 * time.Second

// Prober measures the duration of an audio file.
type Prober interface {
	Name() string
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// Chain tries probers in order and falls back to a fixed duration when
// none can read the file. Caption timing degrades gracefully, so a wrong
// duration is better than a failed pipeline.
type Chain struct {
	probers  []Prober
	fallback time.Duration
	log      *logrus.Entry
}

// NewChain builds the standard chain: ffprobe when installed, then an
// in-process MP3 decode, then the fallback duration.
func NewChain(fallback time.Duration) *Chain {
	var probers []Prober
	if path, err := exec.LookPath("ffprobe"); err == nil {
		probers = append(probers, &ffprobeProber{path: path})
	}
	probers = append(probers, mp3Prober{})
	return &Chain{
		probers:  probers,
		fallback: fallback,
		log:      logrus.WithField("component", "probe"),
	}
}

// Duration returns the audio duration, or the fallback if every prober
// fails.
func (c *Chain) Duration(ctx context.Context, path string) time.Duration {
	for _, p := range c.probers {
		d, err := p.Duration(ctx, path)
		if err == nil && d > 0 {
			return d
		}
		c.log.WithError(err).WithFields(logrus.Fields{
			"prober": p.Name(),
			"file":   filepath.Base(path),
		}).Debug("duration probe failed")
	}
	c.log.WithField("fallback", c.fallback).Warn("no prober could read audio duration")
	return c.fallback
}

type ffprobeProber struct {
	path string
}

func (f *ffprobeProber) Name() string { return "ffprobe" }

func (f *ffprobeProber) Duration(ctx context.Context, path string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, ffprobeTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, f.path,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe output %q: %w", strings.TrimSpace(string(out)), err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// mp3Prober decodes the MP3 header in-process, no external binaries.
type mp3Prober struct{}

func (mp3Prober) Name() string { return "mp3-decode" }

func (mp3Prober) Duration(_ context.Context, path string) (time.Duration, error) {
	if strings.ToLower(filepath.Ext(path)) != ".mp3" {
		return 0, fmt.Errorf("not an mp3: %s", filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("decode mp3: %w", err)
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}
