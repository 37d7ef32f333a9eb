package mapper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/skosovsky/unifai"
	"github.com/skosovsky/unifai/constraint"
	"github.com/skosovsky/unifai/internal/cast"
)

// Field copies the validated value of parameter name to a (dotted) request field.
func Field(name, field string) Mapper {
	return Func(name, func(req Request, value any, table constraint.Table, _ *Stash) error {
		v, err := Validate(name, value, table)
		if err != nil || v == nil {
			return err
		}
		return req.Set(field, v)
	})
}

// Rounded writes a numeric parameter rounded to the nearest multiple of granularity.
func Rounded(name, field string, granularity int) Mapper {
	return Func(name, func(req Request, value any, table constraint.Table, _ *Stash) error {
		v, err := Validate(name, value, table)
		if err != nil || v == nil {
			return err
		}
		f, ok := cast.ToFloat64(v)
		if !ok {
			return unifai.WithParameter(unifai.Violationf(v, "must be numeric, got %T", v), name)
		}
		return req.Set(field, roundTo(int(math.Round(f)), granularity))
	})
}

func roundTo(v, granularity int) int {
	if granularity <= 1 {
		return v
	}
	return ((v + granularity/2) / granularity) * granularity
}

// ThinkingAuto is the string form of the dynamic thinking budget.
const ThinkingAuto = "auto"

// Thinking builds a discriminated thinking object from a budget parameter.
// ThinkingAuto or the sentinel number yields {type: auto}; any other
// number N yields {type: enabled, budget_tokens: N}.
func Thinking(name, field string, sentinel int) Mapper {
	return Func(name, func(req Request, value any, table constraint.Table, _ *Stash) error {
		v, err := Validate(name, value, table)
		if err != nil || v == nil {
			return err
		}
		if s, ok := v.(string); ok && s == ThinkingAuto {
			return req.Set(field, map[string]any{"type": "auto"})
		}
		n, ok := cast.ToInt64(v)
		if !ok {
			n, ok = cast.IntegralFloat(v)
		}
		if !ok {
			return unifai.WithParameter(unifai.Violationf(v, "thinking budget must be %q or an integer, got %v", ThinkingAuto, v), name)
		}
		if n == int64(sentinel) {
			return req.Set(field, map[string]any{"type": "auto"})
		}
		return req.Set(field, map[string]any{"type": "enabled", "budget_tokens": int(n)})
	})
}

// DimensionsSplit splits a "WxH" parameter into two integer fields rounded to granularity.
func DimensionsSplit(name, widthField, heightField string, granularity int) Mapper {
	return Func(name, func(req Request, value any, table constraint.Table, _ *Stash) error {
		v, err := Validate(name, value, table)
		if err != nil || v == nil {
			return err
		}
		s, ok := v.(string)
		if !ok {
			return unifai.WithParameter(unifai.Violationf(v, "must be a WIDTHxHEIGHT string, got %T", v), name)
		}
		w, h, err := constraint.ParseDimensions(s)
		if err != nil {
			return unifai.WithParameter(err, name)
		}
		if err := req.Set(widthField, roundTo(w, granularity)); err != nil {
			return err
		}
		return req.Set(heightField, roundTo(h, granularity))
	})
}

// Ratio is a width:height aspect ratio.
type Ratio struct {
	W int
	H int
}

// String returns "W:H".
func (r Ratio) String() string { return fmt.Sprintf("%d:%d", r.W, r.H) }

// DefaultRatio is used by Resolution when no aspect ratio was stashed.
var DefaultRatio = Ratio{W: 16, H: 9}

// RatioKey is the Stash slot AspectRatio writes and Resolution reads.
var RatioKey = NewKey[Ratio]("aspect_ratio")

// ParseRatio parses "W:H" (or "WxH") into a Ratio of positive integers.
func ParseRatio(s string) (Ratio, error) {
	sep := ":"
	if !strings.Contains(s, sep) {
		sep = "x"
	}
	ws, hs, found := strings.Cut(strings.ToLower(s), sep)
	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if !found || errW != nil || errH != nil || w <= 0 || h <= 0 {
		return Ratio{}, unifai.Violationf(s, "invalid aspect ratio %q, expected 'W:H'", s)
	}
	return Ratio{W: w, H: h}, nil
}

type aspectRatio struct {
	name string
}

// AspectRatio stashes the parsed ratio under RatioKey for a later Resolution
// mapper. It writes nothing to the request.
func AspectRatio(name string) Mapper {
	return aspectRatio{name: name}
}

func (a aspectRatio) Name() string { return a.name }

func (a aspectRatio) Map(_ Request, value any, table constraint.Table, st *Stash) error {
	v, err := Validate(a.name, value, table)
	if err != nil || v == nil {
		return err
	}
	s, ok := v.(string)
	if !ok {
		return unifai.WithParameter(unifai.Violationf(v, "aspect ratio must be a string, got %T", v), a.name)
	}
	r, err := ParseRatio(s)
	if err != nil {
		return unifai.WithParameter(err, a.name)
	}
	Put(st, RatioKey, r)
	return nil
}

// resolutionTiers maps a tier to the pixel length of the shorter side.
var resolutionTiers = map[string]int{
	"480p":  480,
	"720p":  720,
	"1080p": 1080,
	"1440p": 1440,
	"4k":    2160,
}

type resolution struct {
	name  string
	field string
	after string
}

// Resolution combines a tier ("480p", "720p", "1080p", "1440p", "4k") with the
// ratio stashed by the AspectRatio mapper named ratioFrom into one "WxH" size
// field. Without a stashed ratio DefaultRatio applies. An empty ratioFrom
// always uses DefaultRatio.
func Resolution(name, field, ratioFrom string) Mapper {
	return resolution{name: name, field: field, after: ratioFrom}
}

func (r resolution) Name() string { return r.name }

func (r resolution) After() []string {
	if r.after == "" {
		return nil
	}
	return []string{r.after}
}

func (r resolution) Map(req Request, value any, table constraint.Table, st *Stash) error {
	v, err := Validate(r.name, value, table)
	if err != nil || v == nil {
		return err
	}
	tier, _ := v.(string)
	short, ok := resolutionTiers[strings.ToLower(tier)]
	if !ok {
		return unifai.WithParameter(unifai.Violationf(v, "unknown resolution %v", v), r.name)
	}
	ratio := DefaultRatio
	if r.after != "" {
		if stashed, found := Take(st, RatioKey); found {
			ratio = stashed
		}
	}
	return req.Set(r.field, sizeFor(ratio, short))
}

// sizeFor scales ratio so its shorter side equals short; both sides are even.
func sizeFor(ratio Ratio, short int) string {
	even := func(f float64) int { return int(math.Round(f/2)) * 2 }
	if ratio.W >= ratio.H {
		return fmt.Sprintf("%dx%d", even(float64(short)*float64(ratio.W)/float64(ratio.H)), short)
	}
	return fmt.Sprintf("%dx%d", short, even(float64(short)*float64(ratio.H)/float64(ratio.W)))
}

// ToolEncoder converts a built-in tool to its provider wire form.
type ToolEncoder func(constraint.Tool) (map[string]any, error)

// Tools appends the tools list to a request array field. Built-in tools are
// encoded with encode; user-defined tool maps are appended unchanged.
func Tools(name, field string, encode ToolEncoder) Mapper {
	return Func(name, func(req Request, value any, table constraint.Table, _ *Stash) error {
		v, err := Validate(name, value, table)
		if err != nil || v == nil {
			return err
		}
		var items []any
		switch t := v.(type) {
		case []any:
			items = t
		case []constraint.Tool:
			for _, tool := range t {
				items = append(items, tool)
			}
		case []map[string]any:
			for _, m := range t {
				items = append(items, m)
			}
		default:
			return unifai.WithParameter(unifai.Violationf(v, "tools must be a list, got %T", v), name)
		}
		existing, _ := req.Lookup(field)
		out, _ := existing.([]any)
		for _, item := range items {
			switch t := item.(type) {
			case constraint.Tool:
				if encode == nil {
					return unifai.WithParameter(unifai.Violationf(v, "built-in tool %q not supported", t.ToolType()), name)
				}
				wire, err := encode(t)
				if err != nil {
					return fmt.Errorf("tool %q: %w", t.ToolType(), err)
				}
				out = append(out, wire)
			case map[string]any:
				out = append(out, t)
			default:
				return unifai.WithParameter(unifai.Violationf(v, "unsupported tool %T", item), name)
			}
		}
		return req.Set(field, out)
	})
}
