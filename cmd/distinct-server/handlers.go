// handlers.go implements the DH.* command family plus PING.
//
// Every handler validates its argument count first, then performs its store
// operation while the store holds the owning shard's lock, so sketch access
// is serialized without the sketches themselves carrying any locking.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/probkit/distinct/hll"
	"github.com/probkit/distinct/sketch"
	"github.com/probkit/distinct/ssss"
)

// handlePing handles the PING command.
// Syntax: PING
func (app *application) handlePing(w io.Writer, args []string) {
	if len(args) != 0 {
		app.wrongNumberOfArgsResponse(w, "PING")
		return
	}
	_ = app.writeSimpleStringResponse(w, "PONG")
}

// handleCreate handles the DH.CREATE command.
// Syntax: DH.CREATE name [max-counters [registers]]
//
// Omitted parameters fall back to the server defaults, so sketches created
// without explicit sizes share a config and remain mergeable.
func (app *application) handleCreate(w io.Writer, args []string) {
	if len(args) < 1 || len(args) > 3 {
		app.wrongNumberOfArgsResponse(w, "DH.CREATE")
		return
	}

	name := args[0]
	maxCounters := app.config.maxCounters
	numRegisters := app.config.numRegisters

	if len(args) >= 2 {
		v, err := strconv.Atoi(args[1])
		if err != nil || v <= 0 {
			_ = app.writeErrorResponse(w, "ERR max-counters must be a positive integer")
			return
		}
		maxCounters = v
	}
	if len(args) == 3 {
		v, err := strconv.Atoi(args[2])
		if err != nil || v <= 0 {
			_ = app.writeErrorResponse(w, "ERR registers must be a positive integer")
			return
		}
		numRegisters = v
	}

	counter, err := hll.NewConfig(numRegisters, app.counterSeed)
	if err != nil {
		_ = app.writeErrorResponse(w, "ERR "+err.Error())
		return
	}
	cfg, err := ssss.NewConfig(maxCounters, counter, app.samplerSeed)
	if err != nil {
		_ = app.writeErrorResponse(w, "ERR "+err.Error())
		return
	}

	if !app.store.Create(name, ssss.New[string, string](cfg)) {
		_ = app.writeErrorResponse(w, fmt.Sprintf("ERR sketch '%s' already exists", name))
		return
	}

	_ = app.writeSimpleStringResponse(w, "OK")
}

// handleInsert handles the DH.INSERT command.
// Syntax: DH.INSERT name label item [item ...]
func (app *application) handleInsert(w io.Writer, args []string) {
	if len(args) < 3 {
		app.wrongNumberOfArgsResponse(w, "DH.INSERT")
		return
	}

	name, label, items := args[0], args[1], args[2:]

	found := app.store.Do(name, func(sk *sketchValue) {
		for _, item := range items {
			sk.Insert(label, item)
		}
	})
	if !found {
		app.noSuchSketchResponse(w, name)
		return
	}

	app.metrics.ItemsInserted.Add(float64(len(items)))
	_ = app.writeSimpleStringResponse(w, "OK")
}

// handleCard handles the DH.CARD command.
// Syntax: DH.CARD name label
//
// For a label the sketch is not tracking, the reply is the sketch's lower
// bound (the smallest tracked estimate), matching the space-saving contract
// that untracked labels cannot exceed the minimum counter.
func (app *application) handleCard(w io.Writer, args []string) {
	if len(args) != 2 {
		app.wrongNumberOfArgsResponse(w, "DH.CARD")
		return
	}

	name, label := args[0], args[1]

	var estimate uint64
	found := app.store.Do(name, func(sk *sketchValue) {
		estimate = sk.Cardinality(label)
	})
	if !found {
		app.noSuchSketchResponse(w, name)
		return
	}

	_ = app.writeUintResponse(w, estimate)
}

// handleTop handles the DH.TOP command.
// Syntax: DH.TOP name [k]
//
// Replies with a flat array of label, estimate pairs sorted by descending
// estimate. k defaults to 10.
func (app *application) handleTop(w io.Writer, args []string) {
	if len(args) < 1 || len(args) > 2 {
		app.wrongNumberOfArgsResponse(w, "DH.TOP")
		return
	}

	name := args[0]
	k := 10
	if len(args) == 2 {
		v, err := strconv.Atoi(args[1])
		if err != nil || v <= 0 {
			_ = app.writeErrorResponse(w, "ERR k must be a positive integer")
			return
		}
		k = v
	}

	var entries []sketch.LabelCount[string]
	found := app.store.Do(name, func(sk *sketchValue) {
		entries = sk.Top(k)
	})
	if !found {
		app.noSuchSketchResponse(w, name)
		return
	}

	_ = app.writeTopResponse(w, entries)
}

// handleMerge handles the DH.MERGE command.
// Syntax: DH.MERGE dest src
//
// The source sketch is left untouched; the destination absorbs it. Both
// sketches must have been created with the same parameters.
func (app *application) handleMerge(w io.Writer, args []string) {
	if len(args) != 2 {
		app.wrongNumberOfArgsResponse(w, "DH.MERGE")
		return
	}

	dest, src := args[0], args[1]

	var mergeErr error
	okDest, okSrc := app.store.DoPair(dest, src, func(a, b *sketchValue) {
		mergeErr = a.Merge(b)
	})
	if !okDest {
		app.noSuchSketchResponse(w, dest)
		return
	}
	if !okSrc {
		app.noSuchSketchResponse(w, src)
		return
	}
	if mergeErr != nil {
		_ = app.writeErrorResponse(w, "ERR "+mergeErr.Error())
		return
	}

	_ = app.writeSimpleStringResponse(w, "OK")
}

// handleReset handles the DH.RESET command.
// Syntax: DH.RESET name
//
// Clears the sketch back to empty while keeping its configuration, so it
// stays mergeable with its former peers.
func (app *application) handleReset(w io.Writer, args []string) {
	if len(args) != 1 {
		app.wrongNumberOfArgsResponse(w, "DH.RESET")
		return
	}

	name := args[0]
	if !app.store.Do(name, func(sk *sketchValue) { sk.Clear() }) {
		app.noSuchSketchResponse(w, name)
		return
	}

	_ = app.writeSimpleStringResponse(w, "OK")
}

// handleLen handles the DH.LEN command.
// Syntax: DH.LEN name
//
// Replies with the number of labels the sketch currently tracks, which is
// at most its configured counter budget.
func (app *application) handleLen(w io.Writer, args []string) {
	if len(args) != 1 {
		app.wrongNumberOfArgsResponse(w, "DH.LEN")
		return
	}

	name := args[0]
	var n int
	if !app.store.Do(name, func(sk *sketchValue) { n = sk.NumCounters() }) {
		app.noSuchSketchResponse(w, name)
		return
	}

	_ = app.writeIntegerResponse(w, n)
}

// unknownCommandResponse sends an unknown command error to the client.
func (app *application) unknownCommandResponse(w io.Writer, commandName string) {
	_ = app.writeErrorResponse(w, fmt.Sprintf("ERR unknown command '%s'", commandName))
}

// wrongNumberOfArgsResponse sends a wrong number of arguments error to the client.
func (app *application) wrongNumberOfArgsResponse(w io.Writer, commandName string) {
	_ = app.writeErrorResponse(w, fmt.Sprintf("ERR wrong number of arguments for '%s' command", commandName))
}

// noSuchSketchResponse sends a missing sketch error to the client.
func (app *application) noSuchSketchResponse(w io.Writer, name string) {
	_ = app.writeErrorResponse(w, fmt.Sprintf("ERR no such sketch '%s'", name))
}
