package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncodeWAVHeader(t *testing.T) {
	pcm := []byte{0xE8, 0x03, 0x18, 0xFC}

	wav, err := EncodeWAV(pcm, SampleRate)
	if err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}

	if len(wav) != 44+len(pcm) {
		t.Fatalf("len(wav) = %d, want %d", len(wav), 44+len(pcm))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatalf("container magic = %q %q", wav[0:4], wav[8:12])
	}

	if got := binary.LittleEndian.Uint16(wav[22:24]); got != 1 {
		t.Fatalf("channels = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != SampleRate {
		t.Fatalf("sample rate = %d, want %d", got, SampleRate)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != 16 {
		t.Fatalf("bits per sample = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Fatalf("data size = %d, want %d", got, len(pcm))
	}
	if !bytes.Equal(wav[44:], pcm) {
		t.Fatal("data chunk does not match input PCM")
	}
}

func TestEncodeWAVDefaultsSampleRate(t *testing.T) {
	wav, err := EncodeWAV(nil, 0)
	if err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != SampleRate {
		t.Fatalf("sample rate = %d, want default %d", got, SampleRate)
	}
}
