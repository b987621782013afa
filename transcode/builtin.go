/*
DESCRIPTION
  builtin.go provides a Transcoder that decodes, down-mixes and resamples in
  process, for hosts without ffmpeg.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package transcode

import (
	"context"
	"os"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/luisfcorreia/batchG729converter/codec/pcm"
	"github.com/luisfcorreia/batchG729converter/codec/wav"
	"github.com/luisfcorreia/batchG729converter/failure"
)

// Anti-alias filter parameters.
const (
	cutoff      = 3400 // Hz, top of the telephone band.
	defaultTaps = 64
)

// Builtin transcodes WAV, FLAC, MP3 and Ogg Vorbis input without external tools.
type Builtin struct {
	TempDir    string
	FilterTaps int
	Log        logging.Logger
}

// Transcode implements Transcoder.
func (b *Builtin) Transcode(ctx context.Context, in string) (string, error) {
	tmp, err := TempFile(b.TempDir)
	if err != nil {
		return "", err
	}

	err = b.transcode(ctx, in, tmp)
	if err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil && !os.IsNotExist(rmErr) {
			b.Log.Warning("could not remove temp file", "path", tmp, "error", rmErr)
		}
		return "", err
	}
	return tmp, nil
}

func (b *Builtin) transcode(ctx context.Context, in, out string) error {
	decode, err := decoderFor(in)
	if err != nil {
		return failure.Wrap(failure.TranscodeFailed, err, "could not transcode "+in)
	}

	f, err := os.Open(in)
	if err != nil {
		return failure.Wrap(failure.IO, err, "could not open input")
	}
	defer f.Close()

	src, err := decode(f)
	if err != nil {
		return failure.Wrap(failure.TranscodeFailed, err, "could not decode "+in)
	}
	b.Log.Debug("decoded input", "in", in, "rate", src.Format.Rate, "channels", src.Format.Channels, "bytes", len(src.Data))
	if err := ctx.Err(); err != nil {
		return failure.Wrap(failure.TranscodeFailed, err, "transcode cancelled")
	}

	norm, err := b.normalise(src)
	if err != nil {
		return failure.Wrap(failure.TranscodeFailed, err, "could not normalise "+in)
	}

	md, err := wav.FromBuffer(norm)
	if err != nil {
		return failure.Wrap(failure.TranscodeFailed, err, "could not describe output")
	}
	w := &wav.WAV{Metadata: md}
	if _, err := w.Write(norm.Data); err != nil {
		return failure.Wrap(failure.TranscodeFailed, err, "could not encode WAV")
	}

	o, err := os.Create(out)
	if err != nil {
		return failure.Wrap(failure.IO, err, "could not open temp file")
	}
	_, err = w.WriteTo(o)
	if closeErr := o.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return failure.Wrap(failure.IO, err, "could not write temp file")
	}
	return nil
}

// normalise down-mixes src to mono, low-pass filters it when down-sampling
// and resamples it to SampleRate.
func (b *Builtin) normalise(src pcm.Buffer) (pcm.Buffer, error) {
	if src.Format.Rate == 0 || src.Format.Channels == 0 {
		return pcm.Buffer{}, errors.Errorf("invalid input format: %d Hz, %d channels", src.Format.Rate, src.Format.Channels)
	}

	mono, err := pcm.ToMono(src)
	if err != nil {
		return pcm.Buffer{}, errors.Wrap(err, "could not down-mix")
	}

	if mono.Format.Rate > SampleRate {
		taps := b.FilterTaps
		if taps <= 0 {
			taps = defaultTaps
		}
		lp, err := pcm.NewLowPass(cutoff, mono.Format, taps)
		if err != nil {
			return pcm.Buffer{}, errors.Wrap(err, "could not create low-pass filter")
		}
		mono.Data, err = lp.Apply(mono)
		if err != nil {
			return pcm.Buffer{}, errors.Wrap(err, "could not filter")
		}
	}

	out, err := pcm.Resample(mono, SampleRate)
	if err != nil {
		return pcm.Buffer{}, errors.Wrap(err, "could not resample")
	}
	return out, nil
}
