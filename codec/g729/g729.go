/*
NAME
  g729.go

DESCRIPTION
  g729.go defines the G.729 frame geometry and the interface to the native
  speech encoder.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package g729 feeds normalised PCM audio, one 10 ms window at a time, to a
// G.729 speech encoder. The compression itself is performed by a native
// library (bcg729) behind the Encoder interface.
package g729

// PCM profile the encoder accepts.
const (
	SampleRate = 8000 // Hz.
	Channels   = 1
	BitDepth   = 16
)

// Frame geometry.
const (
	FrameSamples = 80               // 10 ms at 8000 Hz.
	FrameBytes   = FrameSamples * 2 // 16-bit samples.
	MaxPayload   = 10               // Largest encoded frame (active speech).
	SIDPayload   = 2                // Silence insertion descriptor frame.
)

// Encoder is a handle to a native G.729 encoder channel. A handle is owned by
// a single conversion and must be closed exactly once.
type Encoder interface {
	// Encode compresses one window of exactly FrameSamples samples and returns
	// the encoded payload. With voice activity detection enabled the payload
	// may be MaxPayload, SIDPayload or zero bytes long.
	Encode(frame []int16) ([]byte, error)

	// Close releases the encoder channel.
	Close() error
}
