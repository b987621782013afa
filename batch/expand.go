/*
DESCRIPTION
  expand.go resolves command line arguments into the list of input files.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package batch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ausocean/utils/logging"
	"github.com/bmatcuk/doublestar/v4"
)

// Expand resolves args into input files, in argument order. An existing file
// is used as is. An existing directory contributes every regular file below
// it, or symlink to one, in lexical order. Anything else is treated as a glob
// pattern, which may use ** to match any number of directories; patterns that
// match nothing or are malformed are dropped. Files found by walking or
// globbing whose names end in suffix are previous outputs and are left out.
func Expand(args []string, suffix string, l logging.Logger) []string {
	var paths []string
	for _, arg := range args {
		fi, err := os.Stat(arg)
		switch {
		case err == nil && fi.Mode().IsRegular():
			paths = append(paths, arg)
		case err == nil && fi.IsDir():
			paths = append(paths, walk(arg, suffix, l)...)
		default:
			paths = append(paths, glob(arg, suffix, l)...)
		}
	}
	return paths
}

func walk(dir, suffix string, l logging.Logger) []string {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			l.Warning("could not walk path", "path", path, "error", err)
			return nil
		}
		if d.IsDir() || isOutput(path, suffix) {
			return nil
		}
		// Follow symlinks so linked files are converted like regular ones.
		fi, err := os.Stat(path)
		if err == nil && fi.Mode().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		l.Warning("could not walk directory", "dir", dir, "error", err)
	}
	return paths
}

func glob(pattern, suffix string, l logging.Logger) []string {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		l.Debug("dropping bad pattern", "pattern", pattern, "error", err)
		return nil
	}
	sort.Strings(matches)

	var paths []string
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil || !fi.Mode().IsRegular() || isOutput(m, suffix) {
			continue
		}
		paths = append(paths, m)
	}
	if len(paths) == 0 {
		l.Debug("dropping argument with no matches", "arg", pattern)
	}
	return paths
}

func isOutput(path, suffix string) bool {
	return suffix != "" && strings.HasSuffix(filepath.Base(path), suffix)
}

// OutputPath returns in with its extension replaced by suffix. When in has
// no extension suffix is appended.
func OutputPath(in, suffix string) string {
	ext := filepath.Ext(in)
	if ext == filepath.Base(in) {
		ext = "" // Dot file such as .profile.
	}
	return strings.TrimSuffix(in, ext) + suffix
}
