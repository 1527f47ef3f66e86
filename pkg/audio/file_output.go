package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FileOutput is the default audio output port on a headless host: playback
// renders a WAV file into a directory the web client can fetch from.
type FileOutput struct {
	dir string
}

func NewFileOutput(dir string) *FileOutput {
	return &FileOutput{dir: dir}
}

func (o *FileOutput) Play(_ context.Context, samples []float32, sampleRate int) error {
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return fmt.Errorf("creating audio output directory: %w", err)
	}

	path := filepath.Join(o.dir, fmt.Sprintf("speech-%d.wav", time.Now().UnixNano()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating audio file: %w", err)
	}
	defer f.Close()

	if err := WriteWAV(f, EncodePCM16(samples), sampleRate); err != nil {
		return fmt.Errorf("writing audio file: %w", err)
	}

	slog.Info("Rendered speech audio", "path", path, "samples", len(samples))
	return nil
}
