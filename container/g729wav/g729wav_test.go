/*
NAME
  g729wav_test.go

DESCRIPTION
  g729wav_test.go tests the container writer and its header backpatching.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package g729wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeSeeker implements a memory based io.WriteSeeker.
type writeSeeker struct {
	buf []byte
	pos int
}

func (ws *writeSeeker) Write(p []byte) (int, error) {
	end := ws.pos + len(p)
	if end > len(ws.buf) {
		buf := make([]byte, end)
		copy(buf, ws.buf)
		ws.buf = buf
	}
	copy(ws.buf[ws.pos:], p)
	ws.pos = end
	return len(p), nil
}

func (ws *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var pos int
	switch whence {
	case io.SeekStart:
		pos = int(offset)
	case io.SeekCurrent:
		pos = ws.pos + int(offset)
	case io.SeekEnd:
		pos = len(ws.buf) + int(offset)
	}
	if pos < 0 {
		return 0, errors.New("negative result pos")
	}
	ws.pos = pos
	return int64(pos), nil
}

// payloads is a Source returning fixed payloads.
type payloads struct {
	p   [][]byte
	err error
}

func (s *payloads) Next() ([]byte, error) {
	if len(s.p) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	p := s.p[0]
	s.p = s.p[1:]
	return p, nil
}

func TestPreambleLayout(t *testing.T) {
	p := Preamble[:]
	checks := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"riff tag", string(p[0:4]), "RIFF"},
		{"wave tag", string(p[8:12]), "WAVE"},
		{"fmt tag", string(p[12:16]), "fmt "},
		{"format tag", binary.LittleEndian.Uint16(p[20:22]), uint16(FormatTag)},
		{"channels", binary.LittleEndian.Uint16(p[22:24]), uint16(1)},
		{"sample rate", binary.LittleEndian.Uint32(p[24:28]), uint32(SampleRate)},
		{"byte rate", binary.LittleEndian.Uint32(p[28:32]), uint32(ByteRate)},
		{"block align", binary.LittleEndian.Uint16(p[32:34]), uint16(BlockAlign)},
		{"bits per sample", binary.LittleEndian.Uint16(p[34:36]), uint16(0)},
		{"data tag", string(p[36:40]), "data"},
		{"fixed size", binary.LittleEndian.Uint32(p[40:44]), uint32(0x148c)},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		payloads [][]byte
		wantSize int
	}{
		{name: "silence only", payloads: nil, wantSize: 0},
		{name: "one speech frame", payloads: [][]byte{bytes.Repeat([]byte{0xaa}, 10)}, wantSize: 10},
		{
			name: "mixed frames",
			payloads: [][]byte{
				bytes.Repeat([]byte{1}, 10),
				{2, 2},
				bytes.Repeat([]byte{3}, 10),
			},
			wantSize: 22,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := &writeSeeker{}
			var body []byte
			for _, p := range tt.payloads {
				body = append(body, p...)
			}

			n, err := Encode(ws, &payloads{p: tt.payloads})
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			if n != tt.wantSize {
				t.Errorf("Encode() = %d, want %d", n, tt.wantSize)
			}

			got := ws.buf
			if len(got) != PreambleSize+tt.wantSize {
				t.Fatalf("file length = %d, want %d", len(got), PreambleSize+tt.wantSize)
			}
			if v := binary.LittleEndian.Uint32(got[DataSizeOffset:]); v != uint32(tt.wantSize) {
				t.Errorf("payload size field = %d, want %d", v, tt.wantSize)
			}
			if v := binary.LittleEndian.Uint32(got[RIFFSizeOffset:]); v != uint32(RIFFSizeBase+tt.wantSize) {
				t.Errorf("riff size field = %d, want %d", v, RIFFSizeBase+tt.wantSize)
			}

			// Everything outside the two patched fields is the preamble verbatim.
			want := append([]byte(nil), Preamble[:]...)
			copy(want[RIFFSizeOffset:], got[RIFFSizeOffset:RIFFSizeOffset+4])
			copy(want[DataSizeOffset:], got[DataSizeOffset:DataSizeOffset+4])
			if diff := cmp.Diff(want, got[:PreambleSize]); diff != "" {
				t.Errorf("preamble mismatch (-want +got):\n%s", diff)
			}
			if !bytes.Equal(got[PreambleSize:], body) {
				t.Errorf("payload = %x, want %x", got[PreambleSize:], body)
			}
			if ws.pos != len(ws.buf) {
				t.Errorf("writer left at %d, want end of file %d", ws.pos, len(ws.buf))
			}
		})
	}
}

func TestEncodeSourceError(t *testing.T) {
	errBoom := errors.New("boom")
	n, err := Encode(&writeSeeker{}, &payloads{p: [][]byte{{1, 2}}, err: errBoom})
	if !errors.Is(err, errBoom) {
		t.Errorf("Encode() error = %v, want %v", err, errBoom)
	}
	if n != 2 {
		t.Errorf("Encode() = %d, want 2", n)
	}
}

func TestWriterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.g729.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w, err := NewWriter(f)
	if err != nil {
		t.Fatalf("NewWriter() error: %v", err)
	}
	for i := 0; i < 3; i++ {
		_, err = w.Write(bytes.Repeat([]byte{byte(i)}, 10))
		if err != nil {
			t.Fatalf("Write() error: %v", err)
		}
	}
	err = w.Close()
	if err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if _, err := w.Write([]byte{0}); err == nil {
		t.Error("Write() after Close succeeded, want error")
	}
	f.Close()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != PreambleSize+30 {
		t.Fatalf("file length = %d, want %d", len(b), PreambleSize+30)
	}
	if v := binary.LittleEndian.Uint32(b[DataSizeOffset:]); v != 30 {
		t.Errorf("payload size field = %d, want 30", v)
	}
	if v := binary.LittleEndian.Uint32(b[RIFFSizeOffset:]); v != 66 {
		t.Errorf("riff size field = %d, want 66", v)
	}
}
