package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser(t *testing.T) {
	t.Run("splits fields", func(t *testing.T) {
		p := NewParser(strings.NewReader("DH.INSERT flows web a b\r\n"))
		parts, err := p.Parse()
		require.NoError(t, err)
		assert.Equal(t, []string{"DH.INSERT", "flows", "web", "a", "b"}, parts)
	})

	t.Run("accepts bare LF and extra whitespace", func(t *testing.T) {
		p := NewParser(strings.NewReader("  PING  \n"))
		parts, err := p.Parse()
		require.NoError(t, err)
		assert.Equal(t, []string{"PING"}, parts)
	})

	t.Run("skips blank lines", func(t *testing.T) {
		p := NewParser(strings.NewReader("\r\n\r\nPING\r\n"))
		parts, err := p.Parse()
		require.NoError(t, err)
		assert.Equal(t, []string{"PING"}, parts)
	})

	t.Run("reports client gone at EOF", func(t *testing.T) {
		p := NewParser(strings.NewReader(""))
		_, err := p.Parse()
		assert.ErrorIs(t, err, errClientGone)
	})

	t.Run("rejects an unterminated giant line", func(t *testing.T) {
		p := NewParser(strings.NewReader(strings.Repeat("x", MaxLineSize+4096) + "\r\n"))
		_, err := p.Parse()
		assert.ErrorIs(t, err, ErrLineTooLong)
	})
}
