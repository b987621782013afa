/*
DESCRIPTION
  failure_test.go tests error kind tagging and lookup.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package failure

import (
	"fmt"
	"io"
	"testing"

	"github.com/pkg/errors"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "plain error", err: io.ErrUnexpectedEOF, want: IO},
		{name: "new", err: New(ToolNotFound, "no ffmpeg"), want: ToolNotFound},
		{name: "wrapped", err: Wrap(InvalidPCMFormat, io.EOF, "bad header"), want: InvalidPCMFormat},
		{name: "fmt wrapped", err: fmt.Errorf("item: %w", Errorf(TranscodeFailed, "exit %d", 1)), want: TranscodeFailed},
		{name: "pkg wrapped", err: errors.Wrap(New(EncoderInitFailed, "null handle"), "convert"), want: EncoderInitFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(IO, nil, "nothing"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
	if Is(nil, IO) {
		t.Error("Is(nil, IO) = true, want false")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(TranscodeFailed, io.ErrClosedPipe, "could not run ffmpeg")
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Error("wrapped error does not match its cause")
	}
	if errors.Cause(err) != io.ErrClosedPipe {
		t.Errorf("errors.Cause() = %v, want %v", errors.Cause(err), io.ErrClosedPipe)
	}
	const want = "could not run ffmpeg: io: read/write on closed pipe"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
