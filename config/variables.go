/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ausocean/utils/logging"
)

// Config map Keys.
const (
	KeyFFmpegPath       = "FFmpegPath"
	KeyFilterTaps       = "FilterTaps"
	KeyLogLevel         = "LogLevel"
	KeyLogMaxAge        = "LogMaxAge"
	KeyLogMaxBackups    = "LogMaxBackups"
	KeyLogMaxSize       = "LogMaxSize"
	KeyLogPath          = "LogPath"
	KeyOutputSuffix     = "OutputSuffix"
	KeyTempDir          = "TempDir"
	KeyTranscodeTimeout = "TranscodeTimeout"
	KeyTranscoder       = "Transcoder"
	KeyVAD              = "VAD"
)

// Config map parameter types.
const (
	typeString = "string"
	typeUint   = "uint"
	typeBool   = "bool"
)

// Default variable values.
const (
	defaultVerbosity     = logging.Info
	defaultLogMaxSize    = 50 // MB
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28 // days
	defaultTranscoder    = TranscoderFFmpeg
	defaultFFmpegPath    = "ffmpeg"
	defaultOutputSuffix  = ".g729.wav"
	defaultFilterTaps    = 64
)

// Variables describes the variables that can be used to configure a run.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyFFmpegPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.FFmpegPath = v },
		Validate: func(c *Config) {
			if c.FFmpegPath == "" {
				c.LogInvalidField(KeyFFmpegPath, defaultFFmpegPath)
				c.FFmpegPath = defaultFFmpegPath
			}
		},
	},
	{
		Name:   KeyFilterTaps,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.FilterTaps = parseUint(KeyFilterTaps, v, c) },
		Validate: func(c *Config) {
			c.FilterTaps = lessThanOrEqual(KeyFilterTaps, c.FilterTaps, 0, c, defaultFilterTaps)
		},
	},
	{
		Name: KeyLogLevel,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid LogLevel param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField(KeyLogLevel, defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name:   KeyLogMaxAge,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.LogMaxAge = parseUint(KeyLogMaxAge, v, c) },
		Validate: func(c *Config) {
			c.LogMaxAge = lessThanOrEqual(KeyLogMaxAge, c.LogMaxAge, 0, c, defaultLogMaxAge)
		},
	},
	{
		Name:   KeyLogMaxBackups,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.LogMaxBackups = parseUint(KeyLogMaxBackups, v, c) },
		Validate: func(c *Config) {
			c.LogMaxBackups = lessThanOrEqual(KeyLogMaxBackups, c.LogMaxBackups, 0, c, defaultLogMaxBackups)
		},
	},
	{
		Name:   KeyLogMaxSize,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.LogMaxSize = parseUint(KeyLogMaxSize, v, c) },
		Validate: func(c *Config) {
			c.LogMaxSize = lessThanOrEqual(KeyLogMaxSize, c.LogMaxSize, 0, c, defaultLogMaxSize)
		},
	},
	{
		Name:   KeyLogPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.LogPath = v },
		Validate: func(c *Config) {
			if c.LogPath == "" {
				c.LogPath = defaultLogPath()
				c.LogInvalidField(KeyLogPath, c.LogPath)
			}
		},
	},
	{
		Name:   KeyOutputSuffix,
		Type:   typeString,
		Update: func(c *Config, v string) { c.OutputSuffix = v },
		Validate: func(c *Config) {
			if c.OutputSuffix == "" || strings.ContainsAny(c.OutputSuffix, `/\`) {
				c.LogInvalidField(KeyOutputSuffix, defaultOutputSuffix)
				c.OutputSuffix = defaultOutputSuffix
			}
		},
	},
	{
		Name:   KeyTempDir,
		Type:   typeString,
		Update: func(c *Config, v string) { c.TempDir = v },
		Validate: func(c *Config) {
			if c.TempDir == "" {
				c.LogInvalidField(KeyTempDir, os.TempDir())
				c.TempDir = os.TempDir()
			}
		},
	},
	{
		Name: KeyTranscodeTimeout,
		Type: typeUint,
		Update: func(c *Config, v string) {
			c.TranscodeTimeout = time.Duration(parseUint(KeyTranscodeTimeout, v, c)) * time.Second
		},
		Validate: func(c *Config) {
			if c.TranscodeTimeout < 0 {
				c.LogInvalidField(KeyTranscodeTimeout, time.Duration(0))
				c.TranscodeTimeout = 0
			}
		},
	},
	{
		Name: KeyTranscoder,
		Type: "enum:" + TranscoderFFmpeg + "," + TranscoderBuiltin,
		Update: func(c *Config, v string) {
			v = strings.ToLower(v)
			switch v {
			case TranscoderFFmpeg, TranscoderBuiltin:
				c.Transcoder = v
			default:
				c.Logger.Warning("invalid Transcoder param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.Transcoder {
			case TranscoderFFmpeg, TranscoderBuiltin:
			default:
				c.LogInvalidField(KeyTranscoder, defaultTranscoder)
				c.Transcoder = defaultTranscoder
			}
		},
	},
	{
		Name:   KeyVAD,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.DisableVAD = !parseBool(KeyVAD, v, c) },
	},
}

// defaultLogPath returns a log file location under the user's cache
// directory, so logs never land among the files being converted.
func defaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "g729", "g729.log")
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

// parseBool returns true for unparsable values so that a bad VAD setting
// leaves the default in place.
func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
		b = true
	}
	return
}

func lessThanOrEqual(n string, v, cmp uint, c *Config, def uint) uint {
	if v <= cmp {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}
