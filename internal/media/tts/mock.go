package tts

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// MockEngine writes silent WAV files sized to the narration's word
// count. Lets the rest of the pipeline run on machines with no speech
// tooling at all.
type MockEngine struct {
	speed float64
}

func newMockEngine(config Config) *MockEngine {
	return &MockEngine{speed: config.Speed}
}

func (m *MockEngine) Name() string      { return EngineTypeMock.String() }
func (m *MockEngine) OutputExt() string { return ".wav" }

const mockSampleRate = 22050

func (m *MockEngine) SynthesizeFile(_ context.Context, text, outPath string) error {
	words := len(strings.Fields(text))
	dur := time.Duration(float64(words)*0.4/m.speed*float64(time.Second))
	if dur <= 0 {
		dur = time.Second
	}
	color.Yellow("mock narration: writing %v of silence to %s", dur.Round(time.Second), outPath)
	return writeSilentWAV(outPath, dur)
}

// writeSilentWAV emits a minimal 16-bit mono PCM file of silence.
func writeSilentWAV(path string, dur time.Duration) error {
	samples := int(float64(mockSampleRate) * dur.Seconds())
	dataLen := samples * 2

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	defer f.Close()

	var header [44]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataLen))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], 1) // mono
	binary.LittleEndian.PutUint32(header[24:28], mockSampleRate)
	binary.LittleEndian.PutUint32(header[28:32], mockSampleRate*2)
	binary.LittleEndian.PutUint16(header[32:34], 2)
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataLen))

	if _, err := f.Write(header[:]); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}
	if _, err := f.Write(make([]byte, dataLen)); err != nil {
		return fmt.Errorf("write wav data: %w", err)
	}
	return nil
}
