package stt

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// WAV header constants.
const (
	wavHeaderSize   = 44
	wavFormatPCM    = 1
	riffChunkHeader = 8
)

// ErrNotWAV is returned by ExtractPCMFromWAV for input without a RIFF/WAVE header.
var ErrNotWAV = errors.New("not a RIFF/WAVE stream")

// WAVInfo describes the PCM stream inside a WAV container.
type WAVInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// WrapPCMAsWAV wraps raw little-endian PCM in a 44-byte WAV header.
// SpeechKit returns headerless lpcm; the header makes it playable.
func WrapPCMAsWAV(pcmData []byte, sampleRate, channels, bitsPerSample int) []byte {
	dataSize := len(pcmData)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	wav := make([]byte, wavHeaderSize+dataSize)

	copy(wav[0:4], "RIFF")
	binary.LittleEndian.PutUint32(wav[4:8], uint32(36+dataSize))
	copy(wav[8:12], "WAVE")

	copy(wav[12:16], "fmt ")
	binary.LittleEndian.PutUint32(wav[16:20], 16)
	binary.LittleEndian.PutUint16(wav[20:22], wavFormatPCM)
	binary.LittleEndian.PutUint16(wav[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(wav[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(wav[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(wav[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(wav[34:36], uint16(bitsPerSample))

	copy(wav[36:40], "data")
	binary.LittleEndian.PutUint32(wav[40:44], uint32(dataSize))
	copy(wav[44:], pcmData)

	return wav
}

// ExtractPCMFromWAV returns the PCM samples of an uncompressed WAV file so
// they can be sent with format=lpcm. Chunks other than "fmt " and "data" are skipped.
func ExtractPCMFromWAV(data []byte) ([]byte, WAVInfo, error) {
	var info WAVInfo
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, info, ErrNotWAV
	}

	var haveFmt bool
	pos := 12
	for pos+riffChunkHeader <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + riffChunkHeader
		end := body + size
		if end > len(data) {
			end = len(data)
		}

		switch id {
		case "fmt ":
			if end-body < 16 {
				return nil, info, ErrNotWAV
			}
			if binary.LittleEndian.Uint16(data[body:body+2]) != wavFormatPCM {
				return nil, info, ErrInvalidFormat
			}
			info.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, info, ErrNotWAV
			}
			return data[body:end], info, nil
		}

		// chunks are word aligned
		pos = end + size%2
	}
	return nil, info, ErrNotWAV
}
