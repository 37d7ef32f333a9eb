package constraint

import (
	"fmt"
	"slices"
	"strings"

	"github.com/skosovsky/unifai"
)

// Media validates a single artifact of Kind. Lists are rejected outright.
// When MimeTypes is non-empty the artifact's MimeType must be one of them.
type Media struct {
	Kind      unifai.MediaKind
	MimeTypes []unifai.MimeType
}

// MediaList validates one or more artifacts of Kind and normalizes the value
// to []unifai.Artifact. MaxCount <= 0 means unlimited.
type MediaList struct {
	Kind      unifai.MediaKind
	MimeTypes []unifai.MimeType
	MaxCount  int
}

// ImageConstraint returns a single-image constraint.
func ImageConstraint(mimes ...unifai.MimeType) Media {
	return Media{Kind: unifai.MediaImage, MimeTypes: mimes}
}

// ImagesConstraint returns a plural image constraint.
func ImagesConstraint(maxCount int, mimes ...unifai.MimeType) MediaList {
	return MediaList{Kind: unifai.MediaImage, MimeTypes: mimes, MaxCount: maxCount}
}

// VideoConstraint returns a single-video constraint.
func VideoConstraint(mimes ...unifai.MimeType) Media {
	return Media{Kind: unifai.MediaVideo, MimeTypes: mimes}
}

// VideosConstraint returns a plural video constraint.
func VideosConstraint(maxCount int, mimes ...unifai.MimeType) MediaList {
	return MediaList{Kind: unifai.MediaVideo, MimeTypes: mimes, MaxCount: maxCount}
}

// AudioConstraint returns a single-audio constraint.
func AudioConstraint(mimes ...unifai.MimeType) Media {
	return Media{Kind: unifai.MediaAudio, MimeTypes: mimes}
}

// AudiosConstraint returns a plural audio constraint.
func AudiosConstraint(maxCount int, mimes ...unifai.MimeType) MediaList {
	return MediaList{Kind: unifai.MediaAudio, MimeTypes: mimes, MaxCount: maxCount}
}

// Type implements Constraint (e.g. "ImageConstraint").
func (m Media) Type() string { return label(m.Kind) + "Constraint" }

// Validate returns the artifact (as unifai.Artifact) when kind and mime type are accepted.
func (m Media) Validate(value any) (any, error) {
	if isList(value) {
		return nil, unifai.Violationf(value, "%s requires a single %s artifact, not a list", m.Type(), m.Kind)
	}
	a, err := checkArtifact(value, m.Kind, m.MimeTypes)
	if err != nil {
		return nil, unifai.Violationf(value, "%s", err.Error())
	}
	return a, nil
}

// Type implements Constraint (e.g. "ImagesConstraint").
func (m MediaList) Type() string { return label(m.Kind) + "sConstraint" }

// Validate normalizes scalar-or-list input to []unifai.Artifact and checks every element.
// Errors name the 1-indexed position of the first offending element.
func (m MediaList) Validate(value any) (any, error) {
	items := toItems(value)
	if m.MaxCount > 0 && len(items) > m.MaxCount {
		return nil, unifai.Violationf(value, "must have at most %d %s(s), got %d", m.MaxCount, m.Kind, len(items))
	}
	out := make([]unifai.Artifact, 0, len(items))
	for i, item := range items {
		a, err := checkArtifact(item, m.Kind, m.MimeTypes)
		if err != nil {
			return nil, unifai.Violationf(value, "%s %d: %s", label(m.Kind), i+1, err.Error())
		}
		out = append(out, a)
	}
	return out, nil
}

func checkArtifact(value any, kind unifai.MediaKind, mimes []unifai.MimeType) (unifai.Artifact, error) {
	var a unifai.Artifact
	switch v := value.(type) {
	case unifai.Artifact:
		a = v
	case *unifai.Artifact:
		if v == nil {
			return a, fmt.Errorf("must be %s artifact, got nil", kind)
		}
		a = *v
	default:
		return a, fmt.Errorf("must be %s artifact, got %s", kind, typeName(value))
	}
	if a.Kind != kind {
		return a, fmt.Errorf("must be %s artifact, got %s artifact", kind, kindName(a.Kind))
	}
	if len(mimes) > 0 && !slices.Contains(mimes, a.MimeType) {
		return a, fmt.Errorf("mime_type must be one of %v, got %q", mimes, a.MimeType)
	}
	return a, nil
}

func isList(value any) bool {
	switch value.(type) {
	case []unifai.Artifact, []*unifai.Artifact, []any:
		return true
	}
	return false
}

func toItems(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []unifai.Artifact:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	case []*unifai.Artifact:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	default:
		return []any{value}
	}
}

func label(kind unifai.MediaKind) string {
	s := string(kind)
	if s == "" {
		return "Media"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func kindName(kind unifai.MediaKind) string {
	if kind == "" {
		return "untyped"
	}
	return string(kind)
}
