// Package sse decodes a Server-Sent Events body into stream events.
package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/skosovsky/unifai/stream"
)

// MaxLineSize is the longest accepted SSE line (1 MiB).
const MaxLineSize = 1 << 20

// Done is the OpenAI-style end-of-stream sentinel payload.
const Done = "[DONE]"

// ErrMalformedEvent is returned when a data payload is not valid JSON.
var ErrMalformedEvent = errors.New("sse: malformed event payload")

// Source reads events from an SSE body. It implements stream.Source.
type Source struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
	closed  bool
}

var _ stream.Source = (*Source)(nil)

// NewSource returns a Source over body. Closing the Source closes body.
func NewSource(body io.ReadCloser) *Source {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Source{body: body, scanner: scanner}
}

// Recv returns the next event. Data lines of one event are joined with "\n"
// and decoded as JSON; a non-object payload is stored under "data". The
// "event:" field is copied to key "event" unless the payload sets it.
// Comments and other fields are skipped. Done or end of body yields io.EOF.
//
// ctx is checked between events only; cancel a blocked read by closing the
// body or through the HTTP request context.
func (s *Source) Recv(ctx context.Context) (stream.Event, error) {
	if s.done {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		data []string
		name string
	)
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if line == "" {
			if len(data) > 0 {
				return s.decode(data, name)
			}
			name = ""
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "data":
			if strings.TrimSpace(value) == Done {
				s.done = true
				return nil, io.EOF
			}
			data = append(data, value)
		case "event":
			name = value
		}
	}
	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("sse: read: %w", err)
	}
	s.done = true
	if len(data) > 0 {
		return s.decode(data, name)
	}
	return nil, io.EOF
}

func (s *Source) decode(data []string, name string) (stream.Event, error) {
	payload := strings.Join(data, "\n")
	var v any
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	ev, ok := v.(map[string]any)
	if !ok {
		ev = map[string]any{"data": v}
	}
	if _, has := ev["event"]; !has && name != "" {
		ev["event"] = name
	}
	return ev, nil
}

// Close closes the body once; later calls return nil.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.done = true
	return s.body.Close()
}
