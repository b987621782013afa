/*
NAME
  feeder_test.go

DESCRIPTION
  feeder_test.go tests PCM validation, windowing and padding.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package g729

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/go-cmp/cmp"

	"github.com/luisfcorreia/batchG729converter/failure"
)

// fakeEncoder records every frame it is given. Payload sizes cycle through
// sizes, defaulting to MaxPayload.
type fakeEncoder struct {
	frames [][]int16
	sizes  []int
	closed int
}

func (e *fakeEncoder) Encode(f []int16) ([]byte, error) {
	size := MaxPayload
	if len(e.sizes) > 0 {
		size = e.sizes[len(e.frames)%len(e.sizes)]
	}
	e.frames = append(e.frames, append([]int16(nil), f...))
	return bytes.Repeat([]byte{byte(len(e.frames))}, size), nil
}

func (e *fakeEncoder) Close() error { e.closed++; return nil }

// writeWAV writes samples to a new PCM WAV file in dir and returns its path.
func writeWAV(t *testing.T, dir string, rate, bits, chans int, samples []int) string {
	t.Helper()
	path := filepath.Join(dir, "in.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("could not create wav: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, bits, chans, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: chans, SampleRate: rate},
		Data:           samples,
		SourceBitDepth: bits,
	}
	err = enc.Write(buf)
	if err != nil {
		t.Fatalf("could not write samples: %v", err)
	}
	err = enc.Close()
	if err != nil {
		t.Fatalf("could not close wav encoder: %v", err)
	}
	return path
}

func openPCM(t *testing.T, path string) (*PCMReader, error) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("could not open wav: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return OpenPCM(f)
}

func ramp(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i + 1
	}
	return s
}

func TestOpenPCMRejectsFormats(t *testing.T) {
	tests := []struct {
		name  string
		rate  int
		bits  int
		chans int
	}{
		{name: "stereo", rate: 8000, bits: 16, chans: 2},
		{name: "8 bit", rate: 8000, bits: 8, chans: 1},
		{name: "44.1 kHz", rate: 44100, bits: 16, chans: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeWAV(t, t.TempDir(), tt.rate, tt.bits, tt.chans, ramp(160))
			_, err := openPCM(t, path)
			if !failure.Is(err, failure.InvalidPCMFormat) {
				t.Errorf("OpenPCM() error = %v, want kind %v", err, failure.InvalidPCMFormat)
			}
		})
	}
}

func TestOpenPCMNotWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	err := os.WriteFile(path, []byte("this is not a wav file at all"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	_, err = openPCM(t, path)
	if !failure.Is(err, failure.InvalidPCMFormat) {
		t.Errorf("OpenPCM() error = %v, want kind %v", err, failure.InvalidPCMFormat)
	}
}

func TestFeederWindows(t *testing.T) {
	tests := []struct {
		name       string
		samples    int
		wantFrames int
		wantPad    int // Zero samples expected at the end of the last frame.
	}{
		{name: "empty", samples: 0, wantFrames: 0},
		{name: "one sample", samples: 1, wantFrames: 1, wantPad: 79},
		{name: "exact multiple", samples: 160, wantFrames: 2},
		{name: "partial final window", samples: 200, wantFrames: 3, wantPad: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pcm, err := openPCM(t, writeWAV(t, t.TempDir(), SampleRate, BitDepth, Channels, ramp(tt.samples)))
			if err != nil {
				t.Fatalf("OpenPCM() error: %v", err)
			}
			enc := &fakeEncoder{}
			f := NewFeeder(pcm, enc)

			var got int
			for {
				p, err := f.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("Next() error: %v", err)
				}
				got += len(p)
			}

			if len(enc.frames) != tt.wantFrames || f.Frames() != tt.wantFrames {
				t.Fatalf("encoded %d frames (Frames() = %d), want %d", len(enc.frames), f.Frames(), tt.wantFrames)
			}
			if got != tt.wantFrames*MaxPayload {
				t.Errorf("payload bytes = %d, want %d", got, tt.wantFrames*MaxPayload)
			}

			// Every sample must arrive in order, followed only by padding.
			all := []int16{}
			for _, fr := range enc.frames {
				if len(fr) != FrameSamples {
					t.Fatalf("frame length = %d, want %d", len(fr), FrameSamples)
				}
				all = append(all, fr...)
			}
			want := make([]int16, tt.wantFrames*FrameSamples)
			for i := 0; i < tt.samples; i++ {
				want[i] = int16(i + 1)
			}
			if diff := cmp.Diff(want, all); diff != "" {
				t.Errorf("frame samples mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFeederDropsEmptyPayloads(t *testing.T) {
	pcm, err := openPCM(t, writeWAV(t, t.TempDir(), SampleRate, BitDepth, Channels, ramp(4*FrameSamples)))
	if err != nil {
		t.Fatalf("OpenPCM() error: %v", err)
	}
	enc := &fakeEncoder{sizes: []int{MaxPayload, 0, SIDPayload, 0}}
	f := NewFeeder(pcm, enc)

	var sizes []int
	for {
		p, err := f.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		sizes = append(sizes, len(p))
	}

	if diff := cmp.Diff([]int{MaxPayload, SIDPayload}, sizes); diff != "" {
		t.Errorf("payload sizes mismatch (-want +got):\n%s", diff)
	}
	if f.Frames() != 4 {
		t.Errorf("Frames() = %d, want 4", f.Frames())
	}

	// The stream is consumed; further calls keep returning io.EOF.
	if _, err := f.Next(); err != io.EOF {
		t.Errorf("Next() after end = %v, want io.EOF", err)
	}
}
