package main

import (
	"io"
	"strconv"

	"github.com/probkit/distinct/sketch"
)

// Pre-allocated buffers for the most frequent replies. DH.INSERT answers
// "+OK" for every batch, so this path is worth keeping allocation-free.
var (
	respOK   = []byte("+OK\r\n")
	respPong = []byte("+PONG\r\n")
)

func (app *application) writeSimpleStringResponse(w io.Writer, s string) error {
	if s == "OK" {
		_, err := w.Write(respOK)
		return err
	}
	if s == "PONG" {
		_, err := w.Write(respPong)
		return err
	}

	buf := make([]byte, 0, 1+len(s)+2)
	buf = append(buf, '+')
	buf = append(buf, s...)
	buf = append(buf, '\r', '\n')
	_, err := w.Write(buf)
	return err
}

func (app *application) writeErrorResponse(w io.Writer, errStr string) error {
	buf := make([]byte, 0, 1+len(errStr)+2)
	buf = append(buf, '-')
	buf = append(buf, errStr...)
	buf = append(buf, '\r', '\n')
	_, err := w.Write(buf)
	return err
}

func (app *application) writeIntegerResponse(w io.Writer, i int) error {
	buf := make([]byte, 0, 24)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(i), 10)
	buf = append(buf, '\r', '\n')
	_, err := w.Write(buf)
	return err
}

func (app *application) writeUintResponse(w io.Writer, u uint64) error {
	buf := make([]byte, 0, 24)
	buf = append(buf, ':')
	buf = strconv.AppendUint(buf, u, 10)
	buf = append(buf, '\r', '\n')
	_, err := w.Write(buf)
	return err
}

// writeTopResponse writes a DH.TOP reply as a flat array alternating label
// and estimated cardinality, mirroring the shape of Redis TOPK.LIST
// WITHCOUNT. The whole reply goes out in a single Write call.
func (app *application) writeTopResponse(w io.Writer, entries []sketch.LabelCount[string]) error {
	buf := make([]byte, 0, 8+len(entries)*32)

	buf = append(buf, '*')
	buf = strconv.AppendInt(buf, int64(len(entries)*2), 10)
	buf = append(buf, '\r', '\n')

	for _, e := range entries {
		buf = append(buf, '$')
		buf = strconv.AppendInt(buf, int64(len(e.Label)), 10)
		buf = append(buf, '\r', '\n')
		buf = append(buf, e.Label...)
		buf = append(buf, '\r', '\n')

		buf = append(buf, ':')
		buf = strconv.AppendUint(buf, e.Count, 10)
		buf = append(buf, '\r', '\n')
	}

	_, err := w.Write(buf)
	return err
}
