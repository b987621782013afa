/*
NAME
  feeder.go

DESCRIPTION
  feeder.go splits PCM into fixed 80 sample windows and passes each one to
  an Encoder, yielding the encoded payloads in order.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package g729

import (
	"io"

	"github.com/luisfcorreia/batchG729converter/failure"
)

// WindowReader is a source of PCM windows, such as a PCMReader.
type WindowReader interface {
	ReadWindow(w []int16) (int, error)
}

// Feeder produces the encoded payloads for a PCM stream. It is single pass;
// once Next has returned io.EOF the stream is consumed.
type Feeder struct {
	src    WindowReader
	enc    Encoder
	window [FrameSamples]int16
	frames int
	done   bool
}

// NewFeeder returns a Feeder reading windows from src and encoding them
// with enc. The Feeder does not close enc.
func NewFeeder(src WindowReader, enc Encoder) *Feeder {
	return &Feeder{src: src, enc: enc}
}

// Next returns the next non-empty encoded payload. Windows that encode to
// zero bytes produce nothing. A short final window is padded with silence
// before it is encoded. Next returns io.EOF when the stream is exhausted.
func (f *Feeder) Next() ([]byte, error) {
	for !f.done {
		n, err := f.src.ReadWindow(f.window[:])
		if err == io.EOF {
			f.done = true
			break
		}
		if err != nil {
			f.done = true
			return nil, err
		}

		// Zero pad the final partial window. Only input is padded, never output.
		for i := n; i < FrameSamples; i++ {
			f.window[i] = 0
		}

		p, err := f.enc.Encode(f.window[:])
		if err != nil {
			f.done = true
			return nil, failure.Wrap(failure.IO, err, "could not encode frame")
		}
		f.frames++

		if n < FrameSamples {
			f.done = true
		}
		if len(p) > 0 {
			return p, nil
		}
	}
	return nil, io.EOF
}

// Frames returns the number of windows encoded so far.
func (f *Feeder) Frames() int { return f.frames }
