/*
NAME
  pcm.go

DESCRIPTION
  pcm.go provides a reader for the normalised PCM WAV produced by a
  transcoder, validating its format before any sample is read.

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

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/luisfcorreia/batchG729converter/failure"
)

// PCMReader reads 16-bit mono 8000 Hz samples from a WAV stream.
type PCMReader struct {
	dec *wav.Decoder
	buf audio.IntBuffer
	eof bool
}

// OpenPCM decodes the WAV header from r and checks that the stream holds
// mono, 16-bit, 8000 Hz PCM. Any mismatch, which would mean the transcoder
// ignored the requested profile, is reported as failure.InvalidPCMFormat.
func OpenPCM(r io.ReadSeeker) (*PCMReader, error) {
	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, failure.Wrap(failure.InvalidPCMFormat, err, "could not read wav header")
	}

	switch {
	case dec.NumChans != Channels:
		return nil, failure.Errorf(failure.InvalidPCMFormat, "converted file is not mono (%d channels)", dec.NumChans)
	case dec.BitDepth != BitDepth:
		return nil, failure.Errorf(failure.InvalidPCMFormat, "converted file is not 16-bit (%d bits)", dec.BitDepth)
	case dec.SampleRate != SampleRate:
		return nil, failure.Errorf(failure.InvalidPCMFormat, "converted file is not 8000 Hz (%d Hz)", dec.SampleRate)
	}

	err := dec.FwdToPCM()
	if err != nil {
		return nil, failure.Wrap(failure.InvalidPCMFormat, err, "could not find pcm data")
	}
	return &PCMReader{dec: dec}, nil
}

// ReadWindow fills w with the next samples of the stream and returns how
// many were read. A count smaller than len(w) is only returned at the end
// of the stream; once no samples remain ReadWindow returns 0, io.EOF.
func (p *PCMReader) ReadWindow(w []int16) (int, error) {
	if p.eof {
		return 0, io.EOF
	}
	if cap(p.buf.Data) < len(w) {
		p.buf.Data = make([]int, len(w))
	}

	var n int
	for n < len(w) {
		// The decoder may return short reads, so keep going until the window
		// is full or the data chunk is exhausted.
		p.buf.Data = p.buf.Data[:len(w)-n]
		m, err := p.dec.PCMBuffer(&p.buf)
		if err != nil {
			return n, failure.Wrap(failure.IO, err, "could not read pcm samples")
		}
		if m == 0 {
			p.eof = true
			break
		}
		for i := 0; i < m; i++ {
			w[n+i] = int16(p.buf.Data[i])
		}
		n += m
	}

	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
