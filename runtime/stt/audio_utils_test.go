package stt_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/lostredb/yandex-ai/runtime/stt"
)

func TestWrapPCMAsWAV(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	wav := stt.WrapPCMAsWAV(pcm, 16000, 1, 16)

	if len(wav) != 44+len(pcm) {
		t.Fatalf("len = %d, want %d", len(wav), 44+len(pcm))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Errorf("missing RIFF/WAVE header: %q", wav[0:12])
	}
	if !bytes.Equal(wav[44:], pcm) {
		t.Errorf("payload = %v, want %v", wav[44:], pcm)
	}
}

func TestExtractPCMFromWAV_RoundTrip(t *testing.T) {
	pcm := bytes.Repeat([]byte{0x10, 0x20}, 100)

	got, info, err := stt.ExtractPCMFromWAV(stt.WrapPCMAsWAV(pcm, 48000, 1, 16))
	if err != nil {
		t.Fatalf("ExtractPCMFromWAV failed: %v", err)
	}
	if !bytes.Equal(got, pcm) {
		t.Error("PCM payload changed")
	}
	if info.SampleRate != 48000 || info.Channels != 1 || info.BitsPerSample != 16 {
		t.Errorf("info = %+v", info)
	}
}

func TestExtractPCMFromWAV_SkipsUnknownChunks(t *testing.T) {
	pcm := []byte{0xAA, 0xBB}
	wav := stt.WrapPCMAsWAV(pcm, 8000, 1, 16)

	// insert an odd-sized LIST chunk between fmt and data
	list := []byte{'L', 'I', 'S', 'T', 3, 0, 0, 0, 'a', 'b', 'c', 0}
	withList := append(append(append([]byte{}, wav[:36]...), list...), wav[36:]...)

	got, info, err := stt.ExtractPCMFromWAV(withList)
	if err != nil {
		t.Fatalf("ExtractPCMFromWAV failed: %v", err)
	}
	if !bytes.Equal(got, pcm) || info.SampleRate != 8000 {
		t.Errorf("got %v %+v", got, info)
	}
}

func TestExtractPCMFromWAV_Errors(t *testing.T) {
	if _, _, err := stt.ExtractPCMFromWAV([]byte("OggS....")); !errors.Is(err, stt.ErrNotWAV) {
		t.Errorf("err = %v, want ErrNotWAV", err)
	}

	wav := stt.WrapPCMAsWAV([]byte{1, 2}, 16000, 1, 16)
	wav[20] = 3 // IEEE float
	if _, _, err := stt.ExtractPCMFromWAV(wav); !errors.Is(err, stt.ErrInvalidFormat) {
		t.Errorf("err = %v, want ErrInvalidFormat", err)
	}
}
