package recorder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"github.com/vuminh/eduai-server/pkg/audio"
)

// FFmpegMicrophone captures from an ALSA device via ffmpeg, emitting raw
// signed 16-bit little-endian mono samples at the playback sample rate.
type FFmpegMicrophone struct {
	device string
}

func NewFFmpegMicrophone(device string) *FFmpegMicrophone {
	return &FFmpegMicrophone{device: device}
}

func (m *FFmpegMicrophone) Open(ctx context.Context) (io.ReadCloser, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("looking for `ffmpeg`: %w", err)
	}

	// The process must outlive the request that started it: capture ends
	// when the stream is closed on stop or cancel, not when ctx is done.
	cmd := exec.Command("ffmpeg",
		"-f", "alsa",
		"-i", m.device,
		"-f", "s16le",
		"-ar", fmt.Sprint(audio.SampleRate),
		"-ac", "1",
		"-",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("attaching capture pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("running `ffmpeg`: %w", err)
	}

	slog.InfoContext(ctx, "Microphone capture started", "device", m.device)

	return &captureStream{cmd: cmd, out: stdout}, nil
}

// captureStream ties the pipe's lifetime to the ffmpeg process: closing it
// kills capture and reaps the process.
type captureStream struct {
	cmd *exec.Cmd
	out io.ReadCloser
}

func (s *captureStream) Read(p []byte) (int, error) {
	return s.out.Read(p)
}

func (s *captureStream) Close() error {
	_ = s.out.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
	return nil
}
