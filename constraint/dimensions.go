package constraint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skosovsky/unifai"
)

// Dimensions validates a "WIDTHxHEIGHT" string (or a preset key resolving to one)
// against inclusive total-pixel and aspect-ratio bounds.
type Dimensions struct {
	MinPixels int
	MaxPixels int
	MinAspect float64
	MaxAspect float64
	Presets   map[string]string // e.g. "square_hd" -> "1024x1024"
}

// Type implements Constraint.
func (Dimensions) Type() string { return "Dimensions" }

// Validate returns the canonical "WxH" form, never the preset key.
func (d Dimensions) Validate(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, unifai.Violationf(value, "must be string, got %s", typeName(value))
	}
	actual := s
	if preset, ok := d.Presets[s]; ok {
		actual = preset
	}
	width, height, err := ParseDimensions(actual)
	if err != nil {
		return nil, err
	}
	if width > d.MaxPixels/height {
		return nil, unifai.Violationf(value, "total pixels of %dx%d exceed maximum %d for %q",
			width, height, d.MaxPixels, actual)
	}
	pixels := width * height
	if pixels < d.MinPixels || pixels > d.MaxPixels {
		return nil, unifai.Violationf(value, "total pixels %d outside valid range [%d, %d] for %q",
			pixels, d.MinPixels, d.MaxPixels, actual)
	}
	aspect := float64(width) / float64(height)
	if aspect < d.MinAspect || aspect > d.MaxAspect {
		return nil, unifai.Violationf(value, "aspect ratio %.3f outside valid range [%.3f, %.3f] for %q",
			aspect, d.MinAspect, d.MaxAspect, actual)
	}
	return fmt.Sprintf("%dx%d", width, height), nil
}

// ParseDimensions splits "WxH" (case-insensitive x) into two positive integers.
func ParseDimensions(s string) (width, height int, err error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 {
		return 0, 0, unifai.Violationf(s, "invalid dimension format: %q. Expected 'WIDTHxHEIGHT'", s)
	}
	if !isDigits(parts[0]) || !isDigits(parts[1]) {
		return 0, 0, unifai.Violationf(s, "invalid dimension format: %q. Width and height must be positive integers", s)
	}
	width, errW := strconv.Atoi(parts[0])
	height, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil {
		return 0, 0, unifai.Violationf(s, "invalid dimension format: %q. Width and height must be positive integers", s)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, unifai.Violationf(s, "width and height must be positive, got %dx%d", width, height)
	}
	return width, height, nil
}

func isDigits(s string) bool {
	return s != "" && strings.TrimLeft(s, "0123456789") == ""
}
