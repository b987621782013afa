/*
NAME
  pcm.go

DESCRIPTION
  pcm.go contains functions for processing pcm.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pcm provides functions for processing and converting pcm audio.
package pcm

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// SampleFormat is the format that a PCM Buffer's samples can be in.
type SampleFormat int

// Used to represent an unknown format.
const (
	Unknown SampleFormat = -1
)

// Sample formats that we use.
const (
	S16_LE SampleFormat = iota
	S32_LE
)

// BufferFormat contains the format for a PCM Buffer.
type BufferFormat struct {
	SFormat  SampleFormat
	Rate     uint
	Channels uint
}

// Buffer contains a buffer of PCM data and the format that it is in.
type Buffer struct {
	Format BufferFormat
	Data   []byte
}

// FromInt16 returns an S16_LE Buffer holding the interleaved samples s.
func FromInt16(s []int16, rate, channels uint) Buffer {
	b := make([]byte, 2*len(s))
	for i, v := range s {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(v))
	}
	return Buffer{
		Format: BufferFormat{SFormat: S16_LE, Rate: rate, Channels: channels},
		Data:   b,
	}
}

// Resample takes Buffer c and resamples the pcm audio data to 'rate' Hz and returns a Buffer with the resampled data.
// Notes:
//   - When c's rate is an integer multiple of 'rate' each output sample is the average of the
//     corresponding input samples. Trailing bytes that do not make up a whole group are dropped,
//     eg. input of length 480002 downsampling 6:1 will result in output length 80000.
//   - Any other ratio is handled by Catmull-Rom cubic interpolation.
func Resample(c Buffer, rate uint) (Buffer, error) {
	if c.Format.Rate == rate {
		return c, nil
	}
	if c.Format.Rate == 0 {
		return Buffer{}, errors.Errorf("unable to convert from: %v Hz", c.Format.Rate)
	}
	if rate == 0 {
		return Buffer{}, errors.Errorf("unable to convert to: %v Hz", rate)
	}
	if c.Format.Channels == 0 {
		return Buffer{}, errors.New("buffer has no channels")
	}

	width, err := sampleWidth(c.Format.SFormat)
	if err != nil {
		return Buffer{}, err
	}

	// Calculate sample rate ratio ratioFrom:ratioTo.
	rateGcd := gcd(rate, c.Format.Rate)
	ratioFrom := int(c.Format.Rate / rateGcd)
	ratioTo := int(rate / rateGcd)

	var resampled []byte
	if ratioTo == 1 {
		resampled = decimate(c, ratioFrom, width)
	} else {
		resampled = interpolate(c, rate, width)
	}

	// Return a new Buffer with resampled data.
	return Buffer{
		Format: BufferFormat{
			Channels: c.Format.Channels,
			SFormat:  c.Format.SFormat,
			Rate:     rate,
		},
		Data: resampled,
	}, nil
}

// decimate averages each group of ratioFrom frames of c into one frame.
func decimate(c Buffer, ratioFrom, width int) []byte {
	chans := int(c.Format.Channels)
	frameLen := width * chans
	nFrames := len(c.Data) / frameLen / ratioFrom

	resampled := make([]byte, nFrames*frameLen)
	for i := 0; i < nFrames; i++ {
		for ch := 0; ch < chans; ch++ {
			var sum int
			for j := 0; j < ratioFrom; j++ {
				off := ((i*ratioFrom+j)*chans + ch) * width
				sum += readSample(c.Data[off:], c.Format.SFormat)
			}
			writeSample(resampled[(i*chans+ch)*width:], c.Format.SFormat, sum/ratioFrom)
		}
	}
	return resampled
}

// interpolate resamples c to rate using cubic interpolation between the four
// input frames surrounding each output position.
func interpolate(c Buffer, rate uint, width int) []byte {
	chans := int(c.Format.Channels)
	frameLen := width * chans
	inFrames := len(c.Data) / frameLen
	if inFrames == 0 {
		return []byte{}
	}

	step := float64(c.Format.Rate) / float64(rate)
	outFrames := int(uint64(inFrames) * uint64(rate) / uint64(c.Format.Rate))
	resampled := make([]byte, outFrames*frameLen)

	// at returns sample ch of frame i, clamping i to the buffer.
	at := func(i, ch int) float64 {
		if i < 0 {
			i = 0
		} else if i >= inFrames {
			i = inFrames - 1
		}
		return float64(readSample(c.Data[(i*chans+ch)*width:], c.Format.SFormat))
	}

	hi, lo := sampleRange(c.Format.SFormat)
	for o := 0; o < outFrames; o++ {
		pos := float64(o) * step
		i := int(pos)
		x := pos - float64(i)
		for ch := 0; ch < chans; ch++ {
			v := cubic(at(i-1, ch), at(i, ch), at(i+1, ch), at(i+2, ch), x)
			v = math.Max(lo, math.Min(hi, math.Round(v)))
			writeSample(resampled[(o*chans+ch)*width:], c.Format.SFormat, int(v))
		}
	}
	return resampled
}

// cubic performs Catmull-Rom interpolation at fractional position x between y1 and y2.
func cubic(y0, y1, y2, y3, x float64) float64 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	return ((a0*x+a1)*x+a2)*x + y1
}

// ToMono returns mono audio data generated by averaging the channels of each
// frame of the given Buffer.
func ToMono(c Buffer) (Buffer, error) {
	if c.Format.Channels == 1 {
		return c, nil
	}
	if c.Format.Channels == 0 {
		return Buffer{}, errors.New("buffer has no channels")
	}
	width, err := sampleWidth(c.Format.SFormat)
	if err != nil {
		return Buffer{}, err
	}

	chans := int(c.Format.Channels)
	nFrames := len(c.Data) / (width * chans)
	mono := make([]byte, nFrames*width)
	for i := 0; i < nFrames; i++ {
		var sum int
		for ch := 0; ch < chans; ch++ {
			sum += readSample(c.Data[(i*chans+ch)*width:], c.Format.SFormat)
		}
		writeSample(mono[i*width:], c.Format.SFormat, sum/chans)
	}

	// Return a new Buffer with the mixed data.
	return Buffer{
		Format: BufferFormat{
			Channels: 1,
			SFormat:  c.Format.SFormat,
			Rate:     c.Format.Rate,
		},
		Data: mono,
	}, nil
}

func sampleWidth(f SampleFormat) (int, error) {
	switch f {
	case S16_LE:
		return 2, nil
	case S32_LE:
		return 4, nil
	default:
		return 0, errors.Errorf("unhandled sample format: %v", f)
	}
}

func readSample(b []byte, f SampleFormat) int {
	if f == S32_LE {
		return int(int32(binary.LittleEndian.Uint32(b)))
	}
	return int(int16(binary.LittleEndian.Uint16(b)))
}

func writeSample(b []byte, f SampleFormat, v int) {
	if f == S32_LE {
		binary.LittleEndian.PutUint32(b, uint32(int32(v)))
		return
	}
	binary.LittleEndian.PutUint16(b, uint16(int16(v)))
}

func sampleRange(f SampleFormat) (hi, lo float64) {
	if f == S32_LE {
		return math.MaxInt32, math.MinInt32
	}
	return math.MaxInt16, math.MinInt16
}

// gcd is used for calculating the greatest common divisor of two positive integers, a and b.
// assumes given a and b are positive.
func gcd(a, b uint) uint {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// String returns the string representation of a SampleFormat.
func (f SampleFormat) String() string {
	switch f {
	case S16_LE:
		return "S16_LE"
	case S32_LE:
		return "S32_LE"
	default:
		return "Unknown"
	}
}
