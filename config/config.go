/*
NAME
  config.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for the G.729 converters.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Transcoders.
const (
	TranscoderFFmpeg  = "ffmpeg"
	TranscoderBuiltin = "builtin"
)

// EnvPath names the environment variable holding the path of a JSON config file.
const EnvPath = "G729_CONFIG"

// Config provides parameters relevant to a conversion run. Fields left unset
// are defaulted by Validate.
type Config struct {
	// Logger holds an implementation of the Logger interface as defined in
	// github.com/ausocean/utils/logging. This is used to log configuration
	// problems.
	Logger logging.Logger

	// LogLevel is the converter logging verbosity level.
	// Valid values are defined by enums from the logging package: logging.Debug,
	// logging.Info, logging.Warning, logging.Error and logging.Fatal.
	LogLevel int8

	LogPath       string // Path of the rotating log file.
	LogMaxSize    uint   // Maximum log file size in MB before rotation.
	LogMaxBackups uint   // Number of rotated log files kept.
	LogMaxAge     uint   // Days a rotated log file is kept.

	// Transcoder selects how input audio is normalised, either TranscoderFFmpeg
	// or TranscoderBuiltin.
	Transcoder string

	FFmpegPath string // Name or path of the ffmpeg executable.
	TempDir    string // Directory for normalised PCM temp files.

	// OutputSuffix replaces the input extension to form the output name in batch mode.
	OutputSuffix string

	// DisableVAD turns off the encoder's voice activity detection. With VAD
	// on, silent frames encode to 2 byte SID frames or nothing at all.
	DisableVAD bool

	// FilterTaps is the length of the anti-alias filter used by the builtin transcoder.
	FilterTaps uint

	// TranscodeTimeout bounds a single transcode. Zero means no timeout.
	TranscodeTimeout time.Duration
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

// Load returns a validated Config. If path is not empty the JSON object it
// holds is applied with Update first; values of any JSON type are accepted and
// converted to their string form.
func Load(path string, l logging.Logger) (*Config, error) {
	c := &Config{Logger: l}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "could not read config file")
		}
		var raw map[string]interface{}
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil, errors.Wrapf(err, "could not parse config file %s", path)
		}
		vars := make(map[string]string, len(raw))
		for k, v := range raw {
			vars[k] = fmt.Sprint(v)
		}
		c.Update(vars)
	}
	return c, c.Validate()
}
