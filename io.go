package unifai

// Usage holds provider-reported consumption metrics under unified names
// (e.g. "input_tokens", "output_tokens", "num_images"). Values are numeric.
type Usage map[string]float64

// Standard usage field names.
const (
	UsageInputTokens     = "input_tokens"
	UsageOutputTokens    = "output_tokens"
	UsageTotalTokens     = "total_tokens"
	UsageCachedTokens    = "cached_tokens"
	UsageReasoningTokens = "reasoning_tokens"
	UsageNumImages       = "num_images"
)

// FinishReason is the provider-reported reason a generation stopped.
type FinishReason struct {
	Reason   string
	Metadata map[string]any
}

// Chunk is one streamed unit. Immutable once produced by a parse hook.
type Chunk[C any] struct {
	Content      C
	FinishReason *FinishReason // usually only on the final chunk
	Usage        Usage         // nil when the event carried no usage snapshot
	Metadata     map[string]any
}

// Output is the single terminal result of one request, streaming or not.
type Output[C any] struct {
	Content      C
	Usage        Usage
	FinishReason *FinishReason
	Metadata     map[string]any
}
