// Package model describes AI models: identity, capabilities and the
// constraint table for every parameter they accept.
package model

import (
	"slices"

	"github.com/skosovsky/unifai/constraint"
)

// Capability is a kind of work a model can do.
type Capability string

// Known capabilities.
const (
	CapabilityTextGeneration   Capability = "text_generation"
	CapabilityImageGeneration  Capability = "image_generation"
	CapabilityImageEdit        Capability = "image_edit"
	CapabilityVideoGeneration  Capability = "video_generation"
	CapabilitySpeechGeneration Capability = "speech_generation"
	CapabilityTranscription    Capability = "transcription"
	CapabilityEmbeddings       Capability = "embeddings"
)

// Model is an immutable model description. Constraints keys are the parameters the model supports.
type Model struct {
	ID           string           `yaml:"id" json:"id"`
	Provider     string           `yaml:"provider" json:"provider"`
	DisplayName  string           `yaml:"display_name" json:"display_name"`
	Capabilities []Capability     `yaml:"capabilities" json:"capabilities"`
	Streaming    bool             `yaml:"streaming" json:"streaming"`
	Constraints  constraint.Table `yaml:"parameters" json:"parameters"`
}

// SupportsCapability reports whether c is one of the model's capabilities.
func (m *Model) SupportsCapability(c Capability) bool {
	return slices.Contains(m.Capabilities, c)
}

// SupportedParameters returns the constrained parameter names, sorted.
func (m *Model) SupportedParameters() []string {
	return m.Constraints.Names()
}

// SupportsParameter reports whether name has an entry in the constraint table.
func (m *Model) SupportsParameter(name string) bool {
	_, ok := m.Constraints[name]
	return ok
}
