//go:build bcg729
// +build bcg729

/*
NAME
  bcg729.go

DESCRIPTION
  bcg729.go binds the bcg729 native G.729 encoder.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package g729

/*
#cgo LDFLAGS: -lbcg729
#include <stdint.h>
#include <bcg729/encoder.h>
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/luisfcorreia/batchG729converter/failure"
)

var errClosed = errors.New("encoder channel is closed")

// bcg729 is an Encoder backed by a bcg729 encoder channel.
type bcg729 struct {
	ctx *C.bcg729EncoderChannelContextStruct
	out [MaxPayload]byte
}

// NewBCG729 opens a bcg729 encoder channel. When vad is true voice activity
// detection is enabled and silent windows encode to SID or empty frames.
func NewBCG729(vad bool) (Encoder, error) {
	var enable C.uint8_t
	if vad {
		enable = 1
	}
	ctx := C.initBcg729EncoderChannel(enable)
	if ctx == nil {
		return nil, failure.New(failure.EncoderInitFailed, "encoder initialization failed")
	}
	return &bcg729{ctx: ctx}, nil
}

// Encode implements Encoder.
func (e *bcg729) Encode(frame []int16) ([]byte, error) {
	if e.ctx == nil {
		return nil, errClosed
	}
	if len(frame) != FrameSamples {
		return nil, errors.New("frame is not 80 samples")
	}
	var n C.uint8_t
	C.bcg729Encoder(
		e.ctx,
		(*C.int16_t)(unsafe.Pointer(&frame[0])),
		(*C.uint8_t)(unsafe.Pointer(&e.out[0])),
		&n,
	)
	p := make([]byte, int(n))
	copy(p, e.out[:n])
	return p, nil
}

// Close implements Encoder. Calling Close more than once has no effect.
func (e *bcg729) Close() error {
	if e.ctx == nil {
		return nil
	}
	C.closeBcg729EncoderChannel(e.ctx)
	e.ctx = nil
	return nil
}
