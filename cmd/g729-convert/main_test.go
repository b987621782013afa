/*
DESCRIPTION
  main_test.go provides testing for the g729-convert command line.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luisfcorreia/batchG729converter/config"
)

func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{
		{"g729-convert"},
		{"g729-convert", "in.mp3"},
		{"g729-convert", "in.mp3", "out.g729", "extra"},
	} {
		var stdout, stderr bytes.Buffer
		if got := run(args, &stdout, &stderr); got != 1 {
			t.Errorf("run(%v) = %d, want 1", args, got)
		}
		want := "Usage: g729-convert input_audio output.g729\nSupports any audio format that FFmpeg can read\n"
		if stdout.String() != want {
			t.Errorf("run(%v) stdout = %q, want %q", args, stdout.String(), want)
		}
	}
}

func TestRunFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g729.json")
	js := `{"LogPath": "` + filepath.ToSlash(filepath.Join(dir, "g729.log")) + `", "Transcoder": "builtin", "TempDir": "` + filepath.ToSlash(dir) + `"}`
	if err := os.WriteFile(path, []byte(js), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvPath, path)

	out := filepath.Join(dir, "out.g729")
	var stdout, stderr bytes.Buffer
	if got := run([]string{"g729-convert", filepath.Join(dir, "missing.wav"), out}, &stdout, &stderr); got != 1 {
		t.Errorf("exit status = %d, want 1", got)
	}
	if !strings.HasPrefix(stderr.String(), "Error: ") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("unexpected stdout: %q", stdout.String())
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output created: %v", err)
	}
}
