/*
DESCRIPTION
  convert.go provides the single file conversion pipeline: transcode to
  normalised PCM, validate, encode with G.729 and write the container.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package convert converts a single audio file into a G.729 WAV container.
package convert

import (
	"context"
	"os"

	"github.com/ausocean/utils/logging"

	"github.com/luisfcorreia/batchG729converter/codec/g729"
	"github.com/luisfcorreia/batchG729converter/config"
	"github.com/luisfcorreia/batchG729converter/container/g729wav"
	"github.com/luisfcorreia/batchG729converter/failure"
	"github.com/luisfcorreia/batchG729converter/transcode"
)

// Converter converts audio files using a Transcoder for normalisation and a
// fresh Encoder per file.
type Converter struct {
	Transcoder transcode.Transcoder
	NewEncoder func() (g729.Encoder, error)
	Log        logging.Logger
}

// New returns a Converter configured by c, using the bcg729 encoder.
func New(c *config.Config) *Converter {
	vad := !c.DisableVAD
	return &Converter{
		Transcoder: transcode.New(c),
		NewEncoder: func() (g729.Encoder, error) { return g729.NewBCG729(vad) },
		Log:        c.Logger,
	}
}

// Convert encodes in into a G.729 container at out, replacing any existing
// file, and returns the payload size. The normalised temp file is removed on
// every path, as is a partially written output.
func (c *Converter) Convert(ctx context.Context, in, out string) (int, error) {
	tmp, err := c.Transcoder.Transcode(ctx, in)
	if err != nil {
		return 0, err
	}
	defer c.remove(tmp)
	c.Log.Debug("transcoded", "in", in, "tmp", tmp)

	if err := ctx.Err(); err != nil {
		return 0, failure.Wrap(failure.IO, err, "conversion cancelled")
	}

	f, err := os.Open(tmp)
	if err != nil {
		return 0, failure.Wrap(failure.IO, err, "could not open normalised audio")
	}
	defer f.Close()

	// Validate before acquiring the codec so a bad stream never reaches it.
	src, err := g729.OpenPCM(f)
	if err != nil {
		return 0, err
	}

	enc, err := c.NewEncoder()
	if err != nil {
		if !failure.Is(err, failure.EncoderInitFailed) {
			err = failure.Wrap(failure.EncoderInitFailed, err, "could not initialise encoder")
		}
		return 0, err
	}
	defer func() {
		if err := enc.Close(); err != nil {
			c.Log.Warning("could not close encoder", "error", err)
		}
	}()

	n, frames, err := c.write(out, g729.NewFeeder(src, enc))
	if err != nil {
		return 0, err
	}
	c.Log.Debug("encoded", "in", in, "out", out, "frames", frames, "bytes", n)
	return n, nil
}

// write creates out and fills it from feeder, removing it again on failure.
func (c *Converter) write(out string, feeder *g729.Feeder) (n, frames int, err error) {
	o, err := os.Create(out)
	if err != nil {
		return 0, 0, failure.Wrap(failure.IO, err, "could not create output")
	}
	n, err = g729wav.Encode(o, feeder)
	closeErr := o.Close()
	if err == nil && closeErr != nil {
		err = failure.Wrap(failure.IO, closeErr, "could not close output")
	}
	if err != nil {
		c.remove(out)
		return 0, 0, err
	}
	return n, feeder.Frames(), nil
}

func (c *Converter) remove(name string) {
	err := os.Remove(name)
	if err != nil && !os.IsNotExist(err) {
		c.Log.Warning("could not remove file", "path", name, "error", err)
	}
}
