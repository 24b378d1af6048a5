package assemble

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storyweave/internal/media/timing"
	"storyweave/internal/media/tts"
	"storyweave/internal/media/video"
	"storyweave/internal/story"
	"storyweave/internal/story/parse"
)

// Synthesizer is the slice of the tts engine the assembler needs.
type Synthesizer interface {
	OutputExt() string
	SynthesizeFile(ctx context.Context, text, outPath string) error
}

// DurationProber measures narration length, falling back internally.
type DurationProber interface {
	Duration(ctx context.Context, path string) time.Duration
}

// ImageFetcher produces one scene illustration file.
type ImageFetcher interface {
	Fetch(ctx context.Context, scene, culture string, seed int, outPath string) error
}

// VideoMuxer assembles stills and audio into a video.
type VideoMuxer interface {
	Available() bool
	Mux(ctx context.Context, job video.Job) error
}

// Options carry the output geometry and paths.
type Options struct {
	OutputDir string
	Width     int
	Height    int
	FPS       int
	MaxScenes int
	// DefaultDuration paces captions when no audio could be made.
	DefaultDuration time.Duration
}

// Result reports what the pipeline managed to produce. Audio and video
// failures are partial: whatever was produced stays on disk and the
// error rides along instead of aborting the run.
type Result struct {
	AudioPath string
	VideoPath string
	SRTPath   string
	VTTPath   string
	Duration  time.Duration
	AudioErr  error
	VideoErr  error
}

// Assembler runs the full media pipeline for one story.
type Assembler struct {
	tts    Synthesizer
	probe  DurationProber
	images ImageFetcher
	muxer  VideoMuxer
	opts   Options
	log    *logrus.Entry
}

// New wires an Assembler from its collaborators.
func New(tts Synthesizer, probe DurationProber, images ImageFetcher, muxer VideoMuxer, opts Options) *Assembler {
	if opts.MaxScenes <= 0 {
		opts.MaxScenes = parse.MaxScenes
	}
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = 30 * time.Second
	}
	return &Assembler{
		tts:    tts,
		probe:  probe,
		images: images,
		muxer:  muxer,
		opts:   opts,
		log:    logrus.WithField("component", "assemble"),
	}
}

// Assemble produces narration audio, caption files and a scene video
// for a story. The returned error covers only unrecoverable setup
// failures; per-track failures are reported in the Result.
func (a *Assembler) Assemble(ctx context.Context, rec story.Record) (Result, error) {
	if rec.Body == "" {
		return Result{}, fmt.Errorf("story %q has no text to narrate", rec.Title)
	}
	if err := os.MkdirAll(a.opts.OutputDir, 0755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}

	stem := fmt.Sprintf("%s_%s", story.SafeFileName(rec.Title), uuid.NewString()[:8])
	var res Result

	// Narration first; its real duration drives all other timing. The
	// story's mood sets the voice on engines that can switch.
	if vs, ok := a.tts.(tts.VoiceSetter); ok {
		vs.SetVoice(tts.PickVoice("", rec.Body))
	}
	audioPath := filepath.Join(a.opts.OutputDir, stem+a.tts.OutputExt())
	if err := a.tts.SynthesizeFile(ctx, rec.Body, audioPath); err != nil {
		a.log.WithError(err).Warn("narration synthesis failed, continuing without audio")
		res.AudioErr = err
		os.Remove(audioPath)
	} else {
		res.AudioPath = audioPath
	}

	units := timing.SplitSentences(rec.Body)
	if res.AudioPath != "" {
		res.Duration = a.probe.Duration(ctx, res.AudioPath)
	} else {
		res.Duration = timing.EstimateTotal(units)
		if res.Duration <= 0 {
			res.Duration = a.opts.DefaultDuration
		}
	}

	cues := timing.ComputeCues(units, res.Duration)
	if srt, vtt, err := a.writeCaptions(stem, cues); err != nil {
		a.log.WithError(err).Warn("caption files not written")
	} else {
		res.SRTPath, res.VTTPath = srt, vtt
	}

	scenes := rec.Scenes
	if len(scenes) == 0 {
		scenes = parse.PartitionScenes(rec.Body, a.opts.MaxScenes)
	}
	if len(scenes) > a.opts.MaxScenes {
		scenes = scenes[:a.opts.MaxScenes]
	}

	imagePaths := a.fetchScenes(ctx, rec, scenes, stem)
	defer func() {
		for _, p := range imagePaths {
			os.Remove(p)
		}
	}()

	res.VideoPath, res.VideoErr = a.mux(ctx, rec, stem, imagePaths, res)
	return res, nil
}

func (a *Assembler) writeCaptions(stem string, cues []timing.Cue) (srtPath, vttPath string, err error) {
	srtPath = filepath.Join(a.opts.OutputDir, stem+".srt")
	vttPath = filepath.Join(a.opts.OutputDir, stem+".vtt")

	srt, err := os.Create(srtPath)
	if err != nil {
		return "", "", err
	}
	defer srt.Close()
	if err := timing.WriteSRT(srt, cues); err != nil {
		return "", "", err
	}

	vtt, err := os.Create(vttPath)
	if err != nil {
		return "", "", err
	}
	defer vtt.Close()
	if err := timing.WriteVTT(vtt, cues); err != nil {
		return "", "", err
	}
	return srtPath, vttPath, nil
}

// fetchScenes downloads or renders one image per scene. The fetcher
// falls back to placeholders internally, so a missing image here means
// even the placeholder could not be written; that scene is skipped.
func (a *Assembler) fetchScenes(ctx context.Context, rec story.Record, scenes []string, stem string) []string {
	seed := titleSeed(rec.Title)
	var paths []string
	for i, scene := range scenes {
		p := filepath.Join(a.opts.OutputDir, fmt.Sprintf("%s_scene_%d.png", stem, i+1))
		if err := a.images.Fetch(ctx, scene, rec.Culture, seed+i*10, p); err != nil {
			a.log.WithError(err).WithField("scene", i+1).Warn("scene image skipped")
			continue
		}
		paths = append(paths, p)
	}
	return paths
}

func (a *Assembler) mux(ctx context.Context, rec story.Record, stem string, imagePaths []string, res Result) (string, error) {
	if len(imagePaths) == 0 {
		return "", fmt.Errorf("no scene images for %q", rec.Title)
	}
	if a.muxer == nil || !a.muxer.Available() {
		return "", video.ErrNoMuxer
	}

	videoPath := filepath.Join(a.opts.OutputDir, stem+".mp4")
	job := video.Job{
		Images:       imagePaths,
		Durations:    timing.SceneDurations(len(imagePaths), res.Duration),
		AudioPath:    res.AudioPath,
		SubtitlePath: res.SRTPath,
		OutPath:      videoPath,
		Width:        a.opts.Width,
		Height:       a.opts.Height,
		FPS:          a.opts.FPS,
	}
	if err := a.muxer.Mux(ctx, job); err != nil {
		os.Remove(videoPath)
		return "", err
	}

	a.log.WithFields(logrus.Fields{
		"video":    filepath.Base(videoPath),
		"scenes":   len(imagePaths),
		"duration": res.Duration.Round(time.Millisecond),
	}).Info("video assembled")
	return videoPath, nil
}

// titleSeed derives a stable image seed from the story title so retries
// of the same story request the same art.
func titleSeed(title string) int {
	h := fnv.New32a()
	h.Write([]byte(title))
	return int(h.Sum32() % 100_000)
}
