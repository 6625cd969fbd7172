// The distinct server speaks an inline line protocol: one command per line,
// whitespace-separated tokens, CRLF or bare LF terminated. Replies use
// RESP-style framing (+simple, -error, :integer, $bulk, *array), so the
// server is pleasant to drive from netcat and familiar to anyone who has
// read a Redis trace.
//
// The parser is hardened against a client that streams bytes without ever
// sending a newline: line length is capped at MaxLineSize, and oversized
// lines fail the connection instead of buffering without bound.

package main

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// MaxLineSize caps a single command line. 64KB is generous given that
// labels and items are short identifiers in practice.
const MaxLineSize = 64 * 1024

var (
	ErrLineTooLong = errors.New("ERR protocol error: line too long")

	// errClientGone marks the normal end of a connection so the server can
	// log a disconnect rather than an error.
	errClientGone = errors.New("client closed connection")
)

type Parser struct {
	reader *bufio.Reader
}

func NewParser(conn io.Reader) *Parser {
	return &Parser{
		reader: bufio.NewReaderSize(conn, 4096),
	}
}

// Parse reads the next command line and splits it into fields. Blank lines
// are skipped so interactive clients can hit enter without penalty.
func (p *Parser) Parse() ([]string, error) {
	for {
		line, err := p.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errClientGone
			}
			return nil, err
		}

		parts := bytes.Fields(line)
		if len(parts) == 0 {
			continue
		}

		result := make([]string, len(parts))
		for i, part := range parts {
			result[i] = string(part)
		}
		return result, nil
	}
}

// Buffered reports how many bytes the client has already sent beyond the
// current command. A non-zero value means the client is pipelining and the
// response flush can be deferred.
func (p *Parser) Buffered() int {
	return p.reader.Buffered()
}

func (p *Parser) readLine() ([]byte, error) {
	line, isPrefix, err := p.reader.ReadLine()
	if err != nil {
		return nil, err
	}

	if !isPrefix {
		return line, nil
	}

	var buf bytes.Buffer
	buf.Write(line)

	for isPrefix {
		line, isPrefix, err = p.reader.ReadLine()
		if err != nil {
			return nil, err
		}

		// Check before writing so a hostile line cannot allocate past the cap.
		if buf.Len()+len(line) > MaxLineSize {
			return nil, ErrLineTooLong
		}
		buf.Write(line)
	}

	return buf.Bytes(), nil
}
