/*
NAME
  g729wav.go

DESCRIPTION
  g729wav.go writes G.729 payloads into a RIFF/WAVE container with a fixed
  58 byte preamble whose length fields are backpatched once the payload
  size is known.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package g729wav provides a writer for .g729.wav files.
package g729wav

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/luisfcorreia/batchG729converter/failure"
)

// Header geometry.
const (
	PreambleSize   = 58
	RIFFSizeOffset = 4  // Holds RIFFSizeBase + payload size.
	DataSizeOffset = 46 // Holds the payload size.
	RIFFSizeBase   = 36
)

// Format fields carried by the preamble.
const (
	FormatTag  = 0x0132
	SampleRate = 8000
	ByteRate   = 1000
	BlockAlign = 0x28
)

// Preamble is written verbatim at the start of every file. The fields at
// RIFFSizeOffset and DataSizeOffset are placeholders until Close.
//
// DataSizeOffset lies inside the bytes following the data tag rather than
// directly after it. Existing files in the wild use this layout, so it must
// not be "corrected" without checking real decoder behaviour.
var Preamble = [PreambleSize]byte{
	'R', 'I', 'F', 'F',
	0xb6, 0x14, 0x00, 0x00, // RIFF size, backpatched.
	'W', 'A', 'V', 'E',
	'f', 'm', 't', ' ',
	0x10, 0x00, 0x00, 0x00, // fmt chunk size.
	0x32, 0x01, // Format tag.
	0x01, 0x00, // Channels.
	0x40, 0x1f, 0x00, 0x00, // Sample rate.
	0xe8, 0x03, 0x00, 0x00, // Byte rate.
	0x28, 0x00, // Block align.
	0x00, 0x00, // Bits per sample.
	'd', 'a', 't', 'a',
	0x8c, 0x14, 0x00, 0x00, // Fixed sample size placeholder.
	0x00, 0x00,
	0x8c, 0x14, 0x00, 0x00, // Payload size, backpatched.
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}

var errClosed = errors.New("writer is closed")

// Source provides encoded payloads in order, returning io.EOF when done.
type Source interface {
	Next() ([]byte, error)
}

// Writer appends payloads after the preamble and fixes up the header when
// closed.
type Writer struct {
	ws     io.WriteSeeker
	size   int
	closed bool
}

// NewWriter writes the preamble to ws and returns a Writer positioned after
// it. ws should be empty and positioned at its start.
func NewWriter(ws io.WriteSeeker) (*Writer, error) {
	_, err := ws.Write(Preamble[:])
	if err != nil {
		return nil, failure.Wrap(failure.IO, err, "could not write preamble")
	}
	return &Writer{ws: ws}, nil
}

// Write implements io.Writer, appending p to the payload.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errClosed
	}
	n, err := w.ws.Write(p)
	w.size += n
	if err != nil {
		return n, failure.Wrap(failure.IO, err, "could not write payload")
	}
	return n, nil
}

// Size returns the number of payload bytes written so far.
func (w *Writer) Size() int { return w.size }

// Close backpatches the payload size at DataSizeOffset and the RIFF size at
// RIFFSizeOffset. It does not close the underlying io.WriteSeeker. The
// header is patched even when no payload was written.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := patch(w.ws, DataSizeOffset, uint32(w.size))
	if err != nil {
		return err
	}
	err = patch(w.ws, RIFFSizeOffset, uint32(RIFFSizeBase+w.size))
	if err != nil {
		return err
	}

	// Leave ws positioned at the end of the file.
	_, err = w.ws.Seek(0, io.SeekEnd)
	if err != nil {
		return failure.Wrap(failure.IO, err, "could not seek to end")
	}
	return nil
}

// patch writes v as a little-endian uint32 at offset off of ws.
func patch(ws io.WriteSeeker, off int64, v uint32) error {
	_, err := ws.Seek(off, io.SeekStart)
	if err != nil {
		return failure.Wrap(failure.IO, err, "could not seek to length field")
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err = ws.Write(b[:])
	if err != nil {
		return failure.Wrap(failure.IO, err, "could not write length field")
	}
	return nil
}

// Encode writes a complete container to ws holding every payload from src
// and returns the total payload size.
func Encode(ws io.WriteSeeker, src Source) (int, error) {
	w, err := NewWriter(ws)
	if err != nil {
		return 0, err
	}
	for {
		p, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return w.Size(), err
		}
		_, err = w.Write(p)
		if err != nil {
			return w.Size(), err
		}
	}
	return w.Size(), w.Close()
}
