package constraint

import (
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/skosovsky/unifai"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ptr[T any](v T) *T { return &v }

func TestRange_Bounds(t *testing.T) {
	t.Parallel()
	r := Range{Min: 0, Max: 2}

	got, err := r.Validate(0)
	require.NoError(t, err)
	assert.Equal(t, 0, got, "type must be preserved")

	got, err = r.Validate(2.0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	for _, v := range []any{-0.0001, 2.0001, -5, 3} {
		_, err := r.Validate(v)
		require.Error(t, err, "value %v", v)
		assert.ErrorIs(t, err, unifai.ErrConstraintViolation)
	}
}

func TestRange_RejectsNonNumeric(t *testing.T) {
	t.Parallel()
	r := Range{Min: 0, Max: 1}
	for _, v := range []any{"0.5", true, nil, []int{1}} {
		_, err := r.Validate(v)
		require.ErrorIs(t, err, unifai.ErrConstraintViolation)
		assert.Contains(t, err.Error(), "must be numeric")
	}
}

func TestRange_Step(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		min  float64
		max  float64
		step float64
	}{
		{"unit step", 0, 10, 1},
		{"tenths", 0, 2, 0.1},
		{"offset grid", 1, 100, 3},
		{"quarter", -1, 1, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := Range{Min: tt.min, Max: tt.max, Step: ptr(tt.step)}
			for k := 0; tt.min+float64(k)*tt.step <= tt.max+1e-12; k++ {
				v := tt.min + float64(k)*tt.step
				if v > tt.max {
					v = tt.max
				}
				_, err := r.Validate(v)
				require.NoError(t, err, "k=%d v=%v", k, v)

				off := v + tt.step/3
				if off <= tt.max {
					_, err = r.Validate(off)
					require.ErrorIs(t, err, unifai.ErrConstraintViolation, "k=%d off=%v", k, off)
				}
			}
		})
	}
}

func TestRange_StepErrorNamesNearestValues(t *testing.T) {
	t.Parallel()
	r := Range{Min: 0, Max: 100, Step: ptr(5.0)}
	_, err := r.Validate(12)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nearest valid: 10 or 15")
	assert.Contains(t, err.Error(), "got 12")
}

func TestRange_Epsilon(t *testing.T) {
	t.Parallel()
	step := 0.1
	strict := Range{Min: 0, Max: 1, Step: &step, Epsilon: 1e-15}
	loose := Range{Min: 0, Max: 1, Step: &step}

	drifted := 0.1 + 0.2 // 0.30000000000000004
	_, err := loose.Validate(drifted)
	require.NoError(t, err, "default epsilon absorbs float drift")

	_, err = loose.Validate(0.3 + 1e-6)
	require.Error(t, err, "default epsilon is not a loose tolerance")

	_, err = strict.Validate(0.3 + 1e-12)
	require.Error(t, err)
	assert.InDelta(t, 1e-9, DefaultStepEpsilon, 0)
}

func TestRange_SpecialValues(t *testing.T) {
	t.Parallel()
	r := Range{Min: 1024, Max: 32000, SpecialValues: []float64{-1, 0}}
	got, err := r.Validate(-1)
	require.NoError(t, err)
	assert.Equal(t, -1, got)

	_, err = r.Validate(0)
	require.NoError(t, err)

	_, err = r.Validate(-2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "or one of [-1, 0]")
}

func TestChoice(t *testing.T) {
	t.Parallel()
	c, err := NewChoice("low", "medium", "high", 3)
	require.NoError(t, err)

	for _, v := range []any{"low", "medium", "high", 3} {
		got, err := c.Validate(v)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	got, err := c.Validate(3.0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got, "input type is preserved")

	for _, v := range []any{"LOW", "", 4, true, nil} {
		_, err := c.Validate(v)
		require.ErrorIs(t, err, unifai.ErrConstraintViolation, "value %#v", v)
	}
	_, err = c.Validate("ultra")
	assert.Contains(t, err.Error(), `"ultra"`)
}

func TestChoice_BoolNotNumeric(t *testing.T) {
	t.Parallel()
	c, err := NewChoice(1, 0)
	require.NoError(t, err)
	_, err = c.Validate(true)
	require.Error(t, err)
}

func TestNewChoice_Empty(t *testing.T) {
	t.Parallel()
	_, err := NewChoice()
	require.ErrorIs(t, err, ErrEmptyChoice)
}

func TestPattern(t *testing.T) {
	t.Parallel()
	p := Pattern{Pattern: `[a-z]+-\d{2}`}

	got, err := p.Validate("abc-12")
	require.NoError(t, err)
	assert.Equal(t, "abc-12", got)

	for _, v := range []any{"xabc-12x", "abc-123", "ABC-12", 12} {
		_, err := p.Validate(v)
		require.ErrorIs(t, err, unifai.ErrConstraintViolation, "value %#v", v)
	}

	_, err = Pattern{Pattern: "a|b"}.Validate("ab")
	require.Error(t, err, "alternation must be anchored as a whole")

	_, err = Pattern{Pattern: "("}.Validate("x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, unifai.ErrConstraintViolation)
}

func TestDimensions(t *testing.T) {
	t.Parallel()
	d := Dimensions{
		MinPixels: 1, MaxPixels: 2_000_000,
		MinAspect: 0.5, MaxAspect: 2.0,
		Presets: map[string]string{"square_hd": "1024x1024", "landscape": "1536X768"},
	}

	got, err := d.Validate("1024x1024")
	require.NoError(t, err)
	assert.Equal(t, "1024x1024", got)

	got, err = d.Validate("square_hd")
	require.NoError(t, err)
	assert.Equal(t, "1024x1024", got, "preset key resolves to canonical form")

	got, err = d.Validate("landscape")
	require.NoError(t, err)
	assert.Equal(t, "1536x768", got)

	_, err = d.Validate("10x10000")
	require.ErrorIs(t, err, unifai.ErrConstraintViolation)
	assert.Contains(t, err.Error(), "aspect ratio")

	_, err = d.Validate("2000x2000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total pixels")

	// The product of these sides wraps around int64.
	_, err = d.Validate("4294901761x4295032832")
	require.ErrorIs(t, err, unifai.ErrConstraintViolation)
	assert.Contains(t, err.Error(), "exceed maximum 2000000")

	for _, v := range []any{"1024", "axb", "0x10", "-5x10", "1x2x3", 1024} {
		_, err := d.Validate(v)
		require.ErrorIs(t, err, unifai.ErrConstraintViolation, "value %#v", v)
	}
}

func TestInt(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{5, 5, true},
		{int64(-3), -3, true},
		{uint8(7), 7, true},
		{4.0, 4, true},
		{"42", 42, true},
		{"-42", -42, true},
		{4.5, 0, false},
		{"4.5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{true, 0, false},
		{nil, 0, false},
		{uint64(math.MaxUint64), 0, false},
	}
	for _, tt := range tests {
		got, err := Int{}.Validate(tt.in)
		if !tt.ok {
			require.ErrorIs(t, err, unifai.ErrConstraintViolation, "input %#v", tt.in)
			continue
		}
		require.NoError(t, err, "input %#v", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestFloat(t *testing.T) {
	t.Parallel()
	got, err := Float{}.Validate(2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	got, err = Float{}.Validate(float32(0.5))
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)

	for _, v := range []any{true, false, "1.5", nil} {
		_, err := Float{}.Validate(v)
		require.ErrorIs(t, err, unifai.ErrConstraintViolation, "value %#v", v)
	}
}

func TestBool(t *testing.T) {
	t.Parallel()
	got, err := Bool{}.Validate(true)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	for _, v := range []any{0, 1, "true", nil} {
		_, err := Bool{}.Validate(v)
		require.ErrorIs(t, err, unifai.ErrConstraintViolation, "value %#v", v)
	}
}

func TestStr(t *testing.T) {
	t.Parallel()
	s := Str{MinLength: ptr(2), MaxLength: ptr(4)}
	for _, v := range []string{"ab", "abcd", "héé"} {
		_, err := s.Validate(v)
		require.NoError(t, err, "value %q", v)
	}
	_, err := s.Validate("a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short (min 2)")
	_, err = s.Validate("abcde")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too long (max 4)")
	_, err = Str{}.Validate(3)
	require.Error(t, err)
}

type person struct {
	Name string `json:"name"`
}

func TestSchema(t *testing.T) {
	t.Parallel()
	for _, typ := range []reflect.Type{
		TypeOf[person](),
		TypeOf[*person](),
		TypeOf[[]person](),
		TypeOf[[]*person](),
	} {
		got, err := Schema{}.Validate(typ)
		require.NoError(t, err, "type %s", typ)
		assert.Equal(t, typ, got)
	}
	for _, v := range []any{TypeOf[string](), TypeOf[[]int](), person{}, "person", nil} {
		_, err := Schema{}.Validate(v)
		require.ErrorIs(t, err, unifai.ErrConstraintViolation, "value %#v", v)
	}
}

func TestMedia_Single(t *testing.T) {
	t.Parallel()
	c := ImageConstraint(unifai.MimePNG, unifai.MimeJPEG)
	assert.Equal(t, "ImageConstraint", c.Type())

	img := unifai.Image("https://x/a.png", unifai.MimePNG)
	got, err := c.Validate(img)
	require.NoError(t, err)
	assert.Equal(t, img, got)

	got, err = c.Validate(&img)
	require.NoError(t, err)
	assert.Equal(t, img, got)

	_, err = c.Validate([]unifai.Artifact{img})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a list")

	_, err = c.Validate(unifai.Image("https://x/a.gif", unifai.MimeGIF))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mime_type must be one of")

	_, err = c.Validate(unifai.Video("https://x/v.mp4", unifai.MimeMP4))
	require.ErrorIs(t, err, unifai.ErrConstraintViolation)

	_, err = AudioConstraint().Validate(unifai.Audio("https://x/a.flac", unifai.MimeFLAC))
	require.NoError(t, err, "no allow-list accepts any mime type")
}

func TestMediaList(t *testing.T) {
	t.Parallel()
	c := ImagesConstraint(2)
	assert.Equal(t, "ImagesConstraint", c.Type())

	a := unifai.Image("https://x/a.png", unifai.MimePNG)
	b := unifai.Image("https://x/b.jpg", unifai.MimeJPEG)

	got, err := c.Validate(a)
	require.NoError(t, err)
	assert.Equal(t, []unifai.Artifact{a}, got)

	got, err = c.Validate([]unifai.Artifact{a, b})
	require.NoError(t, err)
	assert.Equal(t, []unifai.Artifact{a, b}, got)

	_, err = c.Validate([]unifai.Artifact{a, b, a})
	require.ErrorIs(t, err, unifai.ErrConstraintViolation)
	assert.Contains(t, err.Error(), "at most 2")
}

func TestMediaList_ReportsPosition(t *testing.T) {
	t.Parallel()
	c := VideosConstraint(0, unifai.MimeMP4)
	good := unifai.Video("https://x/a.mp4", unifai.MimeMP4)
	bad := unifai.Video("https://x/b.mov", unifai.MimeMOV)

	_, err := c.Validate([]any{good, bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Video 2: mime_type must be one of")

	_, err = c.Validate([]any{good, "not an artifact"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Video 2: must be video artifact")

	_, err = AudiosConstraint(3).Validate([]*unifai.Artifact{nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Audio 1")
}

type webSearch struct{}

func (webSearch) ToolType() string { return "web_search" }

type codeExec struct{}

func (codeExec) ToolType() string { return "code_execution" }

func TestToolSupport(t *testing.T) {
	t.Parallel()
	c := ToolSupport{Tools: []string{"web_search"}}
	userTool := map[string]any{"name": "get_weather"}

	_, err := c.Validate([]any{webSearch{}, userTool})
	require.NoError(t, err)

	_, err = c.Validate([]Tool{codeExec{}})
	require.ErrorIs(t, err, unifai.ErrConstraintViolation)
	assert.Contains(t, err.Error(), "code_execution")

	_, err = c.Validate("web_search")
	require.Error(t, err)
}

func TestTable_Validate(t *testing.T) {
	t.Parallel()
	table := Table{"temperature": Range{Min: 0, Max: 2}, "seed": Int{}}

	got, err := table.Validate("temperature", nil)
	require.NoError(t, err)
	assert.Nil(t, got, "absent values are never errors")

	got, err = table.Validate("unconstrained", "anything")
	require.NoError(t, err)
	assert.Equal(t, "anything", got)

	got, err = table.Validate("seed", "7")
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	_, err = table.Validate("temperature", 3)
	var ce *unifai.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "temperature", ce.Parameter)
	assert.Equal(t, 3, ce.Value)

	assert.Equal(t, []string{"seed", "temperature"}, table.Names())
	clone := table.Clone()
	delete(clone, "seed")
	assert.Len(t, table, 2)
}
