//go:build !bcg729
// +build !bcg729

/*
NAME
  bcg729_stub.go

DESCRIPTION
  bcg729_stub.go lets the module build without the native bcg729 library.
  Any attempt to open an encoder fails.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package g729

import "github.com/luisfcorreia/batchG729converter/failure"

// NewBCG729 always fails; build with -tags bcg729 to link libbcg729.
func NewBCG729(vad bool) (Encoder, error) {
	return nil, failure.New(failure.EncoderInitFailed, "G.729 support is not available, build with -tags bcg729")
}
