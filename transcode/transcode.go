/*
DESCRIPTION
  transcode.go provides the Transcoder interface, used to normalise arbitrary
  input audio into 8000 Hz, 16-bit, mono PCM WAV temp files.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package transcode normalises input audio for the G.729 encoder.
package transcode

import (
	"context"
	"os"

	"github.com/luisfcorreia/batchG729converter/config"
	"github.com/luisfcorreia/batchG729converter/failure"
)

// Target PCM profile.
const (
	SampleRate = 8000
	Channels   = 1
	BitDepth   = 16
)

// Transcoder produces a normalised PCM WAV temp file from an input file.
// On success the caller owns the returned file and must remove it. On
// failure no temp file is left behind.
type Transcoder interface {
	Transcode(ctx context.Context, path string) (string, error)
}

// TempFile creates an empty, uniquely named WAV file in dir, or the default
// temp directory if dir is empty, and returns its name.
func TempFile(dir string) (string, error) {
	f, err := os.CreateTemp(dir, "g729-*.wav")
	if err != nil {
		return "", failure.Wrap(failure.IO, err, "could not create temp file")
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", failure.Wrap(failure.IO, err, "could not close temp file")
	}
	return name, nil
}

// New returns the Transcoder selected by c.Transcoder.
func New(c *config.Config) Transcoder {
	switch c.Transcoder {
	case config.TranscoderBuiltin:
		return &Builtin{TempDir: c.TempDir, FilterTaps: int(c.FilterTaps), Log: c.Logger}
	default:
		return &FFmpeg{Path: c.FFmpegPath, TempDir: c.TempDir, Timeout: c.TranscodeTimeout, Log: c.Logger}
	}
}
