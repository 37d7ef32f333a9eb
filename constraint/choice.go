package constraint

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sync"

	"github.com/skosovsky/unifai"
	"github.com/skosovsky/unifai/internal/cast"
)

// ErrEmptyChoice is returned by NewChoice when no options are given.
var ErrEmptyChoice = errors.New("constraint: choice requires at least one option")

// Choice requires the value to equal one of Options. Numbers compare by value
// (2 matches 2.0) but never match booleans. The input is returned unchanged.
type Choice struct {
	Options []any
}

// NewChoice returns a Choice over options; options must be non-empty.
func NewChoice(options ...any) (Choice, error) {
	if len(options) == 0 {
		return Choice{}, ErrEmptyChoice
	}
	return Choice{Options: options}, nil
}

// Type implements Constraint.
func (Choice) Type() string { return "Choice" }

// Validate returns value when it is one of the options.
func (c Choice) Validate(value any) (any, error) {
	for _, opt := range c.Options {
		if choiceEqual(opt, value) {
			return value, nil
		}
	}
	return nil, unifai.Violationf(value, "must be one of %v, got %#v", c.Options, value)
}

func choiceEqual(a, b any) bool {
	if cast.IsNumeric(a) && cast.IsNumeric(b) {
		fa, _ := cast.ToFloat64(a)
		fb, _ := cast.ToFloat64(b)
		return fa == fb
	}
	if a == nil || b == nil {
		return a == b
	}
	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(a) == reflect.TypeOf(b) {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// Pattern requires a string that fully matches the regular expression.
type Pattern struct {
	Pattern string
}

// Type implements Constraint.
func (Pattern) Type() string { return "Pattern" }

// patternCache holds compiled, fully anchored expressions keyed by source pattern.
var patternCache sync.Map // string -> *regexp.Regexp

func compileAnchored(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("constraint: invalid pattern %q: %w", pattern, err)
	}
	patternCache.Store(pattern, re)
	return re, nil
}

// Validate returns value when it matches the whole pattern; partial matches fail.
func (p Pattern) Validate(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, unifai.Violationf(value, "must be string, got %s", typeName(value))
	}
	re, err := compileAnchored(p.Pattern)
	if err != nil {
		return nil, err
	}
	if !re.MatchString(s) {
		return nil, unifai.Violationf(value, "must match pattern %q, got %q", p.Pattern, s)
	}
	return s, nil
}
