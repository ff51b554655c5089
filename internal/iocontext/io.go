// Package iocontext lets commands read their streams from a context so tests
// can swap in buffers.
package iocontext

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
)

// IO holds the streams a command reads from and writes to.
type IO struct {
	Out    io.Writer
	ErrOut io.Writer
	In     io.Reader
}

// DefaultIO returns the process streams.
func DefaultIO() *IO {
	return &IO{Out: os.Stdout, ErrOut: os.Stderr, In: os.Stdin}
}

// Quiet returns a copy of io whose diagnostic stream is discarded.
func (s *IO) Quiet() *IO {
	return &IO{Out: s.Out, ErrOut: io.Discard, In: s.In}
}

// Buffers is an IO backed by in-memory buffers.
type Buffers struct {
	*IO
	Stdout *bytes.Buffer
	Stderr *bytes.Buffer
}

// NewBuffers returns buffer-backed streams with stdin fed from input.
func NewBuffers(input string) *Buffers {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return &Buffers{
		IO:     &IO{Out: out, ErrOut: errOut, In: strings.NewReader(input)},
		Stdout: out,
		Stderr: errOut,
	}
}

type ioKey struct{}

// WithIO adds IO streams to a context.
func WithIO(ctx context.Context, streams *IO) context.Context {
	return context.WithValue(ctx, ioKey{}, streams)
}

// GetIO retrieves IO streams from ctx, defaulting to the process streams.
func GetIO(ctx context.Context) *IO {
	if streams, ok := ctx.Value(ioKey{}).(*IO); ok && streams != nil {
		return streams
	}
	return DefaultIO()
}
