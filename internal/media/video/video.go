package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Job describes one slideshow-style video to assemble: a sequence of
// still images held for given durations, optionally with a narration
// track and a subtitle file to burn in.
type Job struct {
	Images    []string
	Durations []time.Duration
	AudioPath string
	// SubtitlePath is an SRT file burned into the frames when the muxer
	// supports it.
	SubtitlePath string
	OutPath      string
	Width        int
	Height       int
	FPS          int
}

// Muxer assembles a Job into a video file.
type Muxer interface {
	Name() string
	Mux(ctx context.Context, job Job) error
}

// ErrNoMuxer is returned when no muxer is available on the host.
var ErrNoMuxer = errors.New("no video muxer available (is ffmpeg installed?)")

// Chain tries muxers best-first: burned subtitles, then a plain
// slideshow. A story with audio but no video is still a useful artifact,
// so callers treat chain failure as partial, not fatal.
type Chain struct {
	muxers []Muxer
	log    *logrus.Entry
}

// NewChain discovers ffmpeg and builds the ranked muxer list.
func NewChain() *Chain {
	c := &Chain{log: logrus.WithField("component", "video")}
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return c
	}
	c.muxers = []Muxer{
		&ffmpegMuxer{path: path, burnSubtitles: true},
		&ffmpegMuxer{path: path},
	}
	return c
}

// Available reports whether any muxer can run on this host.
func (c *Chain) Available() bool { return len(c.muxers) > 0 }

// Mux runs the job through the ranked muxers, returning the last error
// if all fail.
func (c *Chain) Mux(ctx context.Context, job Job) error {
	if len(c.muxers) == 0 {
		return ErrNoMuxer
	}
	var lastErr error
	for _, m := range c.muxers {
		if err := m.Mux(ctx, job); err != nil {
			lastErr = err
			c.log.WithError(err).WithField("muxer", m.Name()).Warn("muxer failed, trying next")
			continue
		}
		return nil
	}
	return fmt.Errorf("all muxers failed: %w", lastErr)
}

type ffmpegMuxer struct {
	path          string
	burnSubtitles bool
}

func (m *ffmpegMuxer) Name() string {
	if m.burnSubtitles {
		return "ffmpeg-subtitles"
	}
	return "ffmpeg"
}

func (m *ffmpegMuxer) Mux(ctx context.Context, job Job) error {
	if len(job.Images) == 0 {
		return errors.New("no images to mux")
	}
	if len(job.Images) != len(job.Durations) {
		return fmt.Errorf("images/durations mismatch: %d vs %d", len(job.Images), len(job.Durations))
	}

	listPath, err := writeConcatList(job)
	if err != nil {
		return err
	}
	defer os.Remove(listPath)

	args := []string{"-y", "-f", "concat", "-safe", "0", "-i", listPath}
	if job.AudioPath != "" {
		args = append(args, "-i", job.AudioPath)
	}

	filters := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", job.Width, job.Height),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", job.Width, job.Height),
	}
	if m.burnSubtitles && job.SubtitlePath != "" {
		filters = append(filters, "subtitles="+escapeFilterPath(job.SubtitlePath))
	}
	args = append(args,
		"-vf", strings.Join(filters, ","),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", job.FPS),
	)
	if job.AudioPath != "" {
		args = append(args, "-c:a", "aac", "-shortest")
	}
	args = append(args, job.OutPath)

	out, err := exec.CommandContext(ctx, m.path, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", m.Name(), err, tail(string(out), 400))
	}
	return nil
}

// writeConcatList emits the ffmpeg concat-demuxer list. The final image
// is repeated without a duration so the last frame survives rounding.
func writeConcatList(job Job) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(job.OutPath), "scenes-*.txt")
	if err != nil {
		return "", fmt.Errorf("create concat list: %w", err)
	}
	defer f.Close()

	for i, img := range job.Images {
		abs, err := filepath.Abs(img)
		if err != nil {
			abs = img
		}
		fmt.Fprintf(f, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
		fmt.Fprintf(f, "duration %.3f\n", job.Durations[i].Seconds())
	}
	last, err := filepath.Abs(job.Images[len(job.Images)-1])
	if err != nil {
		last = job.Images[len(job.Images)-1]
	}
	fmt.Fprintf(f, "file '%s'\n", strings.ReplaceAll(last, "'", `'\''`))
	return f.Name(), nil
}

// escapeFilterPath quotes a path for use inside an ffmpeg filter graph,
// where colons and quotes are syntax.
func escapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, `\`, `\\`)
	path = strings.ReplaceAll(path, `:`, `\:`)
	path = strings.ReplaceAll(path, `'`, `\'`)
	return "'" + path + "'"
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
