/*
DESCRIPTION
  ffmpeg.go provides a Transcoder that shells out to ffmpeg.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/luisfcorreia/batchG729converter/failure"
)

// Time given to an ffmpeg process to release its output pipes after being
// killed on timeout.
const waitDelay = time.Second

// FFmpeg transcodes using an external ffmpeg executable.
type FFmpeg struct {
	Path    string        // Name or path of the executable.
	TempDir string        // Where temp files are created.
	Timeout time.Duration // Zero means no timeout.
	Log     logging.Logger
}

// Transcode implements Transcoder.
func (f *FFmpeg) Transcode(ctx context.Context, in string) (string, error) {
	tmp, err := TempFile(f.TempDir)
	if err != nil {
		return "", err
	}

	path, err := exec.LookPath(f.Path)
	if err != nil {
		f.remove(tmp)
		return "", failure.Wrap(failure.ToolNotFound, err, fmt.Sprintf("couldn't find %s", f.Path))
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	args := Args(in, tmp)
	f.Log.Debug("ffmpeg args", "path", path, "args", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.WaitDelay = waitDelay

	// Copy any std error to a buffer for reporting.
	var errBuff bytes.Buffer
	cmd.Stderr = &errBuff

	err = cmd.Run()
	if err == nil {
		if errBuff.Len() != 0 {
			f.Log.Warning("ffmpeg wrote to stderr", "in", in, "stderr", errBuff.String())
		}
		return tmp, nil
	}
	f.remove(tmp)

	stderr := strings.TrimSpace(errBuff.String())
	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		return "", failure.Wrap(failure.TranscodeFailed, ctx.Err(), "ffmpeg did not finish")
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return "", failure.Wrap(failure.ToolNotFound, err, fmt.Sprintf("couldn't run %s", f.Path))
	case errors.As(err, &exitErr):
		if stderr == "" {
			return "", failure.Errorf(failure.TranscodeFailed, "ffmpeg exited with status %d", exitErr.ExitCode())
		}
		return "", failure.Errorf(failure.TranscodeFailed, "ffmpeg exited with status %d: %s", exitErr.ExitCode(), stderr)
	default:
		return "", failure.Wrap(failure.TranscodeFailed, err, "could not run ffmpeg")
	}
}

func (f *FFmpeg) remove(name string) {
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		f.Log.Warning("could not remove temp file", "path", name, "error", err)
	}
}

// Args returns the ffmpeg arguments that normalise in into out, overwriting out.
func Args(in, out string) []string {
	return []string{
		"-y",
		"-i", in,
		"-ac", fmt.Sprint(Channels),
		"-ar", fmt.Sprint(SampleRate),
		"-acodec", "pcm_s16le",
		"-hide_banner",
		"-loglevel", "error",
		out,
	}
}
