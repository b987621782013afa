/*
DESCRIPTION
  g729-batch converts audio files, directories of audio files and glob
  patterns into G.729 WAV files, writing <stem>.g729.wav next to each input.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package g729-batch is a command line batch converter to G.729 WAV.
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

	"github.com/luisfcorreia/batchG729converter/batch"
	"github.com/luisfcorreia/batchG729converter/config"
	"github.com/luisfcorreia/batchG729converter/convert"
)

// Logging related constants.
const (
	logSuppress     = true
	bootstrapLevel  = logging.Warning
	exitUsageStatus = 2
)

const usage = `usage: %s input [input ...]

Convert audio files to G.729 WAV format.

Each input is a file, a directory (converted recursively) or a glob
pattern such as "*.mp3" or "music/**/*.flac". Inputs whose output
already exists are skipped.
`

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintf(stdout, usage, args[0])
		return exitUsageStatus
	}

	cfg := loadConfig(stderr)

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

	paths := batch.Expand(args[1:], cfg.OutputSuffix, log)
	if len(paths) == 0 {
		fmt.Fprintln(stdout, "No valid input files found")
		return 0
	}
	log.Info("starting batch", "inputs", len(paths), "transcoder", cfg.Transcoder)

	r := &batch.Runner{
		Converter: convert.New(cfg),
		Suffix:    cfg.OutputSuffix,
		Observer:  &printer{w: stdout},
		Log:       log,
	}
	rep := r.Run(ctx, paths)
	log.Info("batch finished", "succeeded", rep.Succeeded, "skipped", rep.Skipped, "failed", rep.Failed)

	fmt.Fprintf(stdout, "\nProcessing complete: %d/%d files converted\n", rep.Succeeded, rep.Total())
	return 0
}

// loadConfig loads the file named by config.EnvPath, falling back to
// defaults if it cannot be used.
func loadConfig(stderr io.Writer) *config.Config {
	l := logging.New(bootstrapLevel, stderr, logSuppress)
	cfg, err := config.Load(os.Getenv(config.EnvPath), l)
	if err != nil {
		l.Warning("could not load config, using defaults", "error", err.Error())
		cfg, _ = config.Load("", l)
	}
	return cfg
}

// printer reports progress on stdout.
type printer struct{ w io.Writer }

func (p *printer) Skipped(it batch.Item) {
	fmt.Fprintf(p.w, "Skipping %s - output already exists\n", it.Input)
}

func (p *printer) Started(it batch.Item) {
	fmt.Fprintf(p.w, "Processing %s...\n", it.Input)
}

func (p *printer) Finished(it batch.Item) {
	switch it.State {
	case batch.Succeeded:
		fmt.Fprintf(p.w, "Created %s (%d bytes)\n", it.Output, it.Size)
	case batch.Failed:
		fmt.Fprintf(p.w, "Error processing %s: %v\n", it.Input, it.Err)
	}
}
