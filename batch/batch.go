/*
DESCRIPTION
  batch.go provides the batch Runner, which converts a list of input files
  one at a time, isolating failures to the file that caused them.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package batch drives conversion of many input files.
package batch

import (
	"context"
	"os"

	"github.com/ausocean/utils/logging"

	"github.com/luisfcorreia/batchG729converter/failure"
)

// State is the state of an Item.
type State int

// Item states. Succeeded, Skipped and Failed are terminal.
const (
	Pending State = iota
	Converting
	Succeeded
	Skipped
	Failed
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Converting:
		return "Converting"
	case Succeeded:
		return "Succeeded"
	case Skipped:
		return "Skipped"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Item tracks one input file through a run.
type Item struct {
	Input  string
	Output string
	State  State
	Size   int   // Payload bytes written, when Succeeded.
	Err    error // Cause, when Failed.
}

// Converter converts one file, returning the encoded payload size.
type Converter interface {
	Convert(ctx context.Context, in, out string) (int, error)
}

// Observer is notified of item progress. Skipped is called instead of
// Started and Finished for items whose output already exists.
type Observer interface {
	Skipped(Item)
	Started(Item)
	Finished(Item)
}

// Report summarises a run.
type Report struct {
	Items     []Item
	Succeeded int
	Skipped   int
	Failed    int
}

// Total returns the number of items in the run, including skipped ones and
// any left Pending by cancellation.
func (r Report) Total() int { return len(r.Items) }

// Runner converts inputs sequentially.
type Runner struct {
	Converter Converter
	Suffix    string   // Output suffix passed to OutputPath.
	Observer  Observer // May be nil.
	Log       logging.Logger
}

// Run converts paths in order. An item whose output already exists is
// skipped without invoking the Converter. A failing item is logged and
// marked Failed, and the run moves on. If ctx is cancelled no further items
// are started and the remainder stay Pending.
func (r *Runner) Run(ctx context.Context, paths []string) Report {
	rep := Report{Items: make([]Item, len(paths))}
	for i, p := range paths {
		rep.Items[i] = Item{Input: p, Output: OutputPath(p, r.Suffix), State: Pending}
	}

	for i := range rep.Items {
		if err := ctx.Err(); err != nil {
			r.Log.Warning("run cancelled", "remaining", len(rep.Items)-i, "error", err)
			break
		}
		it := &rep.Items[i]

		if exists(it.Output) {
			it.State = Skipped
			rep.Skipped++
			r.Log.Info("skipping, output exists", "in", it.Input, "out", it.Output)
			r.notify(Observer.Skipped, *it)
			continue
		}

		it.State = Converting
		r.notify(Observer.Started, *it)
		r.Log.Debug("converting", "in", it.Input, "out", it.Output)

		n, err := r.Converter.Convert(ctx, it.Input, it.Output)
		if err != nil {
			it.State = Failed
			it.Err = err
			rep.Failed++
			r.Log.Error("conversion failed", "in", it.Input, "kind", failure.KindOf(err).String(), "error", err.Error())
		} else {
			it.State = Succeeded
			it.Size = n
			rep.Succeeded++
			r.Log.Info("converted", "in", it.Input, "out", it.Output, "bytes", n)
		}
		r.notify(Observer.Finished, *it)
	}
	return rep
}

func (r *Runner) notify(f func(Observer, Item), it Item) {
	if r.Observer != nil {
		f(r.Observer, it)
	}
}

// exists reports whether a file is present at path, following symlinks.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
