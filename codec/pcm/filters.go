/*
NAME
  filters.go

DESCRIPTION
  filters.go contains a windowed-sinc lowpass filter for mono 16-bit pcm,
  used to band limit audio before it is downsampled.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// blockLen is the number of samples convolved at a time, bounding the FFT size
// for long recordings.
const blockLen = 8192

// SelectiveFrequencyFilter is a windowed-sinc lowpass filter.
type SelectiveFrequencyFilter struct {
	coeffs []float64
	taps   int
}

// NewLowPass generates a lowpass filter with cutoff frequency fc and the given
// number of taps for audio of the given format.
func NewLowPass(fc float64, info BufferFormat, length int) (*SelectiveFrequencyFilter, error) {
	// Ensure that all input values are valid.
	if fc <= 0 || fc >= float64(info.Rate)/2 {
		return nil, errors.New("cutoff frequency out of bounds")
	} else if length <= 0 {
		return nil, errors.New("cannot create filter with length <= 0")
	}
	fd := fc / float64(info.Rate)

	filter := SelectiveFrequencyFilter{taps: length}

	// Windowed sinc coefficients, symmetric about the centre tap.
	size := filter.taps + 1
	filter.coeffs = make([]float64, size)
	b := 2 * math.Pi * fd
	winData := window.FlatTop(size)
	for n := 0; n < (filter.taps / 2); n++ {
		c := float64(n) - float64(filter.taps)/2
		y := math.Sin(c*b) / (math.Pi * c)
		filter.coeffs[n] = y * winData[n]
		filter.coeffs[size-1-n] = filter.coeffs[n]
	}
	filter.coeffs[filter.taps/2] = 2 * fd * winData[filter.taps/2]

	return &filter, nil
}

// Apply filters the mono S16_LE data of b and returns filtered audio of the same
// length, compensated for the filter's group delay.
func (filter *SelectiveFrequencyFilter) Apply(b Buffer) ([]byte, error) {
	if b.Format.Channels != 1 || b.Format.SFormat != S16_LE {
		return nil, errors.New("filter requires mono S16_LE audio")
	}
	if len(b.Data) == 0 {
		return []byte{}, nil
	}

	x, err := bytesToFloats(b.Data)
	if err != nil {
		return nil, fmt.Errorf("could not convert to floats: %w", err)
	}

	// Overlap-add convolution in blocks.
	h := filter.coeffs
	y := make([]float64, len(x)+len(h)-1)
	for start := 0; start < len(x); start += blockLen {
		end := start + blockLen
		if end > len(x) {
			end = len(x)
		}
		part, err := fastConvolve(x[start:end], h)
		if err != nil {
			return nil, fmt.Errorf("could not compute fast convolution: %w", err)
		}
		for i, v := range part {
			y[start+i] += v
		}
	}

	delay := filter.taps / 2
	return floatsToBytes(y[delay : delay+len(x)]), nil
}

// bytesToFloats converts S16_LE pcm to floats in [-1, 1).
func bytesToFloats(b []byte) ([]float64, error) {
	if len(b) == 0 {
		return nil, errors.New("no audio to convert to floats")
	} else if len(b)%2 != 0 {
		return nil, errors.New("uneven number of bytes (not whole number of samples)")
	}

	f := make([]float64, len(b)/2)
	for i := range f {
		f[i] = float64(int16(binary.LittleEndian.Uint16(b[2*i:]))) / (math.MaxInt16 + 1)
	}
	return f, nil
}

// floatsToBytes converts floats in [-1, 1] to S16_LE pcm, clipping values outside that range.
func floatsToBytes(f []float64) []byte {
	b := make([]byte, 2*len(f))
	for i, v := range f {
		v = math.Max(-1, math.Min(1, v))
		binary.LittleEndian.PutUint16(b[2*i:], uint16(int16(v*math.MaxInt16)))
	}
	return b
}

// fastConvolve takes in a signal and an FIR filter and computes the convolution (runs in O(nlog(n)) time).
func fastConvolve(x, h []float64) ([]float64, error) {
	// Ensure valid data to convolve.
	if len(x) == 0 || len(h) == 0 {
		return nil, errors.New("convolution requires slice of length > 0")
	}

	// Calculate the length of the linear convolution.
	convLen := len(x) + len(h) - 1

	// Pad signals to the next largest power of 2 larger than convLen.
	padLen := int(math.Pow(2, math.Ceil(math.Log2(float64(convLen)))))
	xp := make([]float64, padLen)
	copy(xp, x)
	hp := make([]float64, padLen)
	copy(hp, h)

	// Compute DFFTs.
	xFFT, hFFT := fft.FFTReal(xp), fft.FFTReal(hp)

	// Compute the multiplication of the two signals in the freq domain.
	yFFT := make([]complex128, padLen)
	for i := range xFFT {
		yFFT[i] = xFFT[i] * hFFT[i]
	}

	// Compute the IDFFT.
	iy := fft.IFFT(yFFT)

	// Convert to []float64 and trim to length of linear convolution.
	y := make([]float64, convLen)
	for i := range y {
		y[i] = real(iy[i])
	}
	return y, nil
}
