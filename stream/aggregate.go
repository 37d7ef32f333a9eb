package stream

import (
	"strings"

	"github.com/skosovsky/unifai"
)

// LastUsage returns the last non-nil usage snapshot. Providers report cumulative usage.
func LastUsage[C any](chunks []unifai.Chunk[C]) unifai.Usage {
	for i := len(chunks) - 1; i >= 0; i-- {
		if chunks[i].Usage != nil {
			return chunks[i].Usage
		}
	}
	return nil
}

// LastFinishReason returns the last non-nil finish reason.
func LastFinishReason[C any](chunks []unifai.Chunk[C]) *unifai.FinishReason {
	for i := len(chunks) - 1; i >= 0; i-- {
		if chunks[i].FinishReason != nil {
			return chunks[i].FinishReason
		}
	}
	return nil
}

// ConcatText is an Aggregate hook for text streams.
func ConcatText(chunks []unifai.Chunk[string]) (unifai.Output[string], error) {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.Content)
	}
	return unifai.Output[string]{
		Content:      b.String(),
		Usage:        LastUsage(chunks),
		FinishReason: LastFinishReason(chunks),
	}, nil
}
