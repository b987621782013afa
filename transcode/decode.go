/*
DESCRIPTION
  decode.go provides in-process decoders for the audio formats accepted by
  the builtin transcoder.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package transcode

import (
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
	"github.com/pkg/errors"

	"github.com/luisfcorreia/batchG729converter/codec/pcm"
)

const wavPCMFormat = 1

var errUnsupportedType = errors.New("file type not supported")

// decodeFunc decodes a whole stream to interleaved 16-bit PCM.
type decodeFunc func(r io.ReadSeeker) (pcm.Buffer, error)

var decoders = map[string]decodeFunc{
	".wav":  decodeWAV,
	".wave": decodeWAV,
	".flac": decodeFLAC,
	".mp3":  decodeMP3,
	".ogg":  decodeOgg,
	".oga":  decodeOgg,
}

// decoderFor returns the decoder for path's extension.
func decoderFor(path string) (decodeFunc, error) {
	ext := strings.ToLower(filepath.Ext(path))
	d, ok := decoders[ext]
	if !ok {
		return nil, errors.Wrapf(errUnsupportedType, "%q", ext)
	}
	return d, nil
}

func decodeWAV(r io.ReadSeeker) (pcm.Buffer, error) {
	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return pcm.Buffer{}, errors.Wrap(err, "could not read WAV header")
	}
	if dec.WavAudioFormat != wavPCMFormat {
		return pcm.Buffer{}, errors.Errorf("unsupported WAV audio format: %d", dec.WavAudioFormat)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return pcm.Buffer{}, errors.Wrap(err, "could not decode WAV")
	}
	bits := int(dec.BitDepth)
	s := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		if bits == 8 {
			v -= 128 // 8-bit WAV is unsigned.
		}
		s[i] = to16(v, bits)
	}
	return pcm.FromInt16(s, uint(dec.SampleRate), uint(dec.NumChans)), nil
}

// decodeFLAC parses frames from the stream until the end is reached and
// interleaves the subframe samples.
func decodeFLAC(r io.ReadSeeker) (pcm.Buffer, error) {
	stream, err := flac.Parse(r)
	if err != nil {
		return pcm.Buffer{}, errors.Wrap(err, "could not parse FLAC")
	}
	bits := int(stream.Info.BitsPerSample)

	var s []int16
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		} else if err != nil {
			return pcm.Buffer{}, errors.Wrap(err, "could not parse FLAC frame")
		}
		for i := 0; i < frame.Subframes[0].NSamples; i++ {
			for _, subframe := range frame.Subframes {
				s = append(s, to16(int(subframe.Samples[i]), bits))
			}
		}
	}
	return pcm.FromInt16(s, uint(stream.Info.SampleRate), uint(stream.Info.NChannels)), nil
}

// decodeMP3 decodes to the 16-bit little-endian stereo output of go-mp3.
func decodeMP3(r io.ReadSeeker) (pcm.Buffer, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return pcm.Buffer{}, errors.Wrap(err, "could not open MP3")
	}
	b, err := io.ReadAll(dec)
	if err != nil {
		return pcm.Buffer{}, errors.Wrap(err, "could not decode MP3")
	}
	return pcm.Buffer{
		Format: pcm.BufferFormat{SFormat: pcm.S16_LE, Rate: uint(dec.SampleRate()), Channels: 2},
		Data:   b[:len(b)/4*4],
	}, nil
}

func decodeOgg(r io.ReadSeeker) (pcm.Buffer, error) {
	f, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return pcm.Buffer{}, errors.Wrap(err, "could not decode Ogg Vorbis")
	}
	s := make([]int16, len(f))
	for i, v := range f {
		s[i] = int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, math.Round(float64(v)*math.MaxInt16))))
	}
	return pcm.FromInt16(s, uint(format.SampleRate), uint(format.Channels)), nil
}

// to16 scales a signed sample of the given bit depth to 16 bits.
func to16(v, bits int) int16 {
	switch {
	case bits > 16:
		return int16(v >> (bits - 16))
	case bits < 16:
		return int16(v << (16 - bits))
	default:
		return int16(v)
	}
}
