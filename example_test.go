package unifai_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/skosovsky/unifai"
	"github.com/skosovsky/unifai/constraint"
	"github.com/skosovsky/unifai/mapper"
	"github.com/skosovsky/unifai/sse"
	"github.com/skosovsky/unifai/stream"
)

func ExampleConstraintError() {
	table := constraint.Table{"temperature": constraint.Range{Min: 0, Max: 2}}
	_, err := table.Validate("temperature", 2.5)

	var ce *unifai.ConstraintError
	if errors.As(err, &ce) {
		fmt.Println(ce.Parameter, ce.Value)
	}
	fmt.Println(errors.Is(err, unifai.ErrConstraintViolation))
	// Output:
	// temperature 2.5
	// true
}

func Example() {
	table := constraint.Table{
		"temperature": constraint.Range{Min: 0, Max: 2},
		"max_tokens":  constraint.Int{},
	}
	pipeline, err := mapper.NewPipeline(
		mapper.Field("temperature", "temperature"),
		mapper.Field("max_tokens", "max_tokens"),
	)
	if err != nil {
		panic(err)
	}
	req, err := pipeline.Build(mapper.Request{"model": "demo"}, mapper.Params{"temperature": 0.2}, table)
	if err != nil {
		panic(err)
	}
	fmt.Println(req)

	body := io.NopCloser(strings.NewReader("data: {\"delta\":\"Hi\"}\n\ndata: {\"delta\":\" there\"}\n\ndata: [DONE]\n\n"))
	eng := stream.New(sse.NewSource(body), stream.Hooks[string, unifai.Output[string]]{
		ParseChunk: func(ev stream.Event) (*unifai.Chunk[string], error) {
			delta, _ := ev["delta"].(string)
			return &unifai.Chunk[string]{Content: delta}, nil
		},
		Aggregate: stream.ConcatText,
	})
	out, err := eng.Collect(context.Background())
	if err != nil {
		panic(err)
	}
	fmt.Println(out.Content)
	// Output:
	// map[model:demo temperature:0.2]
	// Hi there
}
