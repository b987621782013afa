/*
NAME
  wav.go

DESCRIPTION
  wav.go contains functions for wrapping raw PCM in a WAV container.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package wav provides functions for converting wav audio.
package wav

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/luisfcorreia/batchG729converter/codec/pcm"
)

const (
	PCMFormat  = 1  // PCMFormat defines the value for pcm audio as defined by the wav std.
	HeaderSize = 44 // Size of a canonical PCM WAV header.
)

var (
	errInvalidFormat   = errors.New("invalid or no format defined")
	errInvalidRate     = errors.New("invalid or no sample rate defined")
	errInvalidChannels = errors.New("invalid or no number of channels defined")
	errInvalidBitDepth = errors.New("invalid or no bit depth defined")
)

// Metadata defines the format of the audio file for reading.
type Metadata struct {
	AudioFormat int
	Channels    int
	SampleRate  int
	BitDepth    int
}

// FromBuffer returns the Metadata describing b.
func FromBuffer(b pcm.Buffer) (Metadata, error) {
	md := Metadata{
		AudioFormat: PCMFormat,
		Channels:    int(b.Format.Channels),
		SampleRate:  int(b.Format.Rate),
	}
	switch b.Format.SFormat {
	case pcm.S16_LE:
		md.BitDepth = 16
	case pcm.S32_LE:
		md.BitDepth = 32
	default:
		return Metadata{}, errors.Errorf("unhandled sample format: %v", b.Format.SFormat)
	}
	return md, md.validate()
}

func (md Metadata) validate() error {
	switch {
	case md.AudioFormat != PCMFormat:
		return errInvalidFormat
	case md.Channels <= 0:
		return errInvalidChannels
	case md.SampleRate <= 0:
		return errInvalidRate
	case md.BitDepth <= 0 || md.BitDepth%8 != 0:
		return errInvalidBitDepth
	}
	return nil
}

// header is the on-disk layout of a canonical PCM WAV header.
type header struct {
	RIFF          [4]byte
	RIFFSize      uint32
	WAVE          [4]byte
	Fmt           [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Data          [4]byte
	DataSize      uint32
}

// WAV holds an encoded WAV file in Audio once Write has been called.
type WAV struct {
	Metadata Metadata
	Audio    []byte
}

// Write encodes p with a header into Audio, replacing any previous content,
// and returns len(p).
func (w *WAV) Write(p []byte) (n int, err error) {
	if err := w.Metadata.validate(); err != nil {
		return 0, err
	}
	md := w.Metadata
	h := header{
		RIFF:          [4]byte{'R', 'I', 'F', 'F'},
		RIFFSize:      uint32(HeaderSize - 8 + len(p)),
		WAVE:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		AudioFormat:   uint16(md.AudioFormat),
		Channels:      uint16(md.Channels),
		SampleRate:    uint32(md.SampleRate),
		ByteRate:      uint32(md.SampleRate * md.BitDepth * md.Channels / 8),
		BlockAlign:    uint16(md.BitDepth * md.Channels / 8),
		BitsPerSample: uint16(md.BitDepth),
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      uint32(len(p)),
	}

	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize+len(p)))
	if err := binary.Write(buf, binary.LittleEndian, h); err != nil {
		return 0, errors.Wrap(err, "could not encode header")
	}
	buf.Write(p)
	w.Audio = buf.Bytes()
	return len(p), nil
}

// WriteTo writes the encoded WAV to dst.
func (w *WAV) WriteTo(dst io.Writer) (int64, error) {
	n, err := dst.Write(w.Audio)
	return int64(n), err
}
