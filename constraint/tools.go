package constraint

import (
	"slices"

	"github.com/skosovsky/unifai"
)

// Tool is a built-in (provider-hosted) tool such as web search or code execution.
// User-defined function tools are plain maps and are not checked by ToolSupport.
type Tool interface {
	ToolType() string
}

// ToolSupport requires every built-in Tool in a tools list to be one the model supports.
type ToolSupport struct {
	Tools []string
}

// Type implements Constraint.
func (ToolSupport) Type() string { return "ToolSupport" }

// Validate returns the tools list unchanged when every built-in tool is supported.
func (t ToolSupport) Validate(value any) (any, error) {
	items, ok := value.([]any)
	if !ok {
		if tools, isTools := value.([]Tool); isTools {
			items = make([]any, len(tools))
			for i, tool := range tools {
				items[i] = tool
			}
		} else {
			return nil, unifai.Violationf(value, "tools must be a list, got %s", typeName(value))
		}
	}
	for _, item := range items {
		tool, isTool := item.(Tool)
		if !isTool {
			continue
		}
		if !slices.Contains(t.Tools, tool.ToolType()) {
			return nil, unifai.Violationf(value, "tool %q not supported. Supported: %v", tool.ToolType(), t.Tools)
		}
	}
	return value, nil
}
