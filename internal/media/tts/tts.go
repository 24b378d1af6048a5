package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Engine synthesizes narration text into an audio file. Engines do not
// play audio; the pipeline only needs files it can probe and mux.
type Engine interface {
	Name() string
	// OutputExt is the extension (with dot) the engine produces.
	OutputExt() string
	SynthesizeFile(ctx context.Context, text, outPath string) error
}

// VoiceSetter is implemented by engines whose narration voice and rate
// can be switched per story.
type VoiceSetter interface {
	SetVoice(voice, rate string)
}

// Config selects and tunes an engine.
type Config struct {
	Type  string
	Voice string
	Speed float64
}

type EngineType string

const (
	EngineTypeAuto   EngineType = "auto"
	EngineTypeGoogle EngineType = "google"
	EngineTypeEdge   EngineType = "edge"
	EngineTypeESpeak EngineType = "espeak"
	EngineTypeSay    EngineType = "say"
	EngineTypeMock   EngineType = "mock"
)

func (e EngineType) String() string { return string(e) }

// ConfigFromViper builds the engine config from the tts.* keys.
func ConfigFromViper() Config {
	return Config{
		Type:  viper.GetString("tts.engine"),
		Voice: viper.GetString("tts.voice"),
		Speed: viper.GetFloat64("tts.speed"),
	}
}

// NewEngine creates a synthesis engine. "auto" picks the best engine the
// host can actually run, best first: Google Cloud when credentials are
// present, then edge-tts, then a platform speech command, then mock.
func NewEngine(config Config) (Engine, error) {
	if config.Speed <= 0 {
		config.Speed = 1.0
	}
	if config.Type == "" || config.Type == EngineTypeAuto.String() {
		config.Type = bestEngineForHost().String()
		logrus.WithField("engine", config.Type).Debug("auto-selected tts engine")
	}

	switch config.Type {
	case EngineTypeGoogle.String():
		return newGoogleEngine(config, viper.GetString("tts.cache_path"))
	case EngineTypeEdge.String():
		return newEdgeEngine(config)
	case EngineTypeESpeak.String():
		return newESpeakEngine(config)
	case EngineTypeSay.String():
		if runtime.GOOS != "darwin" {
			return nil, fmt.Errorf("say engine only supports macOS")
		}
		return newSayEngine(config), nil
	case EngineTypeMock.String():
		return newMockEngine(config), nil
	default:
		return nil, fmt.Errorf("unsupported tts engine type: %s", config.Type)
	}
}

func bestEngineForHost() EngineType {
	if hasGoogleCredentials() {
		return EngineTypeGoogle
	}
	if _, err := exec.LookPath("edge-tts"); err == nil {
		return EngineTypeEdge
	}
	if runtime.GOOS == "darwin" {
		if _, err := exec.LookPath("say"); err == nil {
			return EngineTypeSay
		}
	}
	if _, err := findESpeakExecutable(); err == nil {
		return EngineTypeESpeak
	}
	return EngineTypeMock
}

// AvailableEngines lists the engines this host can run right now.
func AvailableEngines() []EngineType {
	engines := []EngineType{EngineTypeMock}
	if _, err := findESpeakExecutable(); err == nil {
		engines = append(engines, EngineTypeESpeak)
	}
	if runtime.GOOS == "darwin" {
		if _, err := exec.LookPath("say"); err == nil {
			engines = append(engines, EngineTypeSay)
		}
	}
	if _, err := exec.LookPath("edge-tts"); err == nil {
		engines = append(engines, EngineTypeEdge)
	}
	if hasGoogleCredentials() {
		engines = append(engines, EngineTypeGoogle)
	}
	return engines
}

func hasGoogleCredentials() bool {
	_, ok := os.LookupEnv("GOOGLE_APPLICATION_CREDENTIALS")
	return ok
}
