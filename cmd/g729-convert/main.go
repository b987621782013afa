/*
DESCRIPTION
  g729-convert converts a single audio file into a G.729 WAV file.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package g729-convert is a command line converter for a single file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/luisfcorreia/batchG729converter/config"
	"github.com/luisfcorreia/batchG729converter/convert"
	"github.com/luisfcorreia/batchG729converter/failure"
)

// Logging related constants.
const (
	logSuppress    = true
	bootstrapLevel = logging.Warning
)

const usage = "Usage: %s input_audio output.g729\nSupports any audio format that FFmpeg can read\n"

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) != 3 {
		fmt.Fprintf(stdout, usage, args[0])
		return 1
	}
	in, out := args[1], args[2]

	l := logging.New(bootstrapLevel, stderr, logSuppress)
	cfg, err := config.Load(os.Getenv(config.EnvPath), l)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	// Create lumberjack logger to handle logging to file.
	fileLog := &lumberjack.Logger{
		Filename:   cfg.LogPath,
		MaxSize:    int(cfg.LogMaxSize),
		MaxBackups: int(cfg.LogMaxBackups),
		MaxAge:     int(cfg.LogMaxAge),
	}
	defer fileLog.Close()
	log := logging.New(cfg.LogLevel, fileLog, logSuppress)
	cfg.Logger = log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	n, err := convert.New(cfg).Convert(ctx, in, out)
	if err != nil {
		log.Error("conversion failed", "in", in, "kind", failure.KindOf(err).String(), "error", err.Error())
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	log.Info("converted", "in", in, "out", out, "bytes", n)
	fmt.Fprintf(stdout, "Encoded %s to %s, %d bytes\n", in, out, n)
	return 0
}
