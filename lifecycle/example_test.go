package lifecycle_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/skosovsky/unifai"
	"github.com/skosovsky/unifai/constraint"
	"github.com/skosovsky/unifai/lifecycle"
	"github.com/skosovsky/unifai/mapper"
	"github.com/skosovsky/unifai/model"
	"github.com/skosovsky/unifai/stream"
)

type echoTransport struct{}

func (echoTransport) Do(_ context.Context, req mapper.Request) (lifecycle.Response, error) {
	return lifecycle.Response{"text": fmt.Sprintf("echo %v at %v", req["prompt"], req["temperature"])}, nil
}

func (echoTransport) Stream(context.Context, mapper.Request) (stream.Source, error) {
	return stream.NewSliceSource(), nil
}

func ExampleClient_Generate() {
	m := &model.Model{
		ID:           "echo-1",
		Provider:     "echo",
		Capabilities: []model.Capability{model.CapabilityTextGeneration},
		Constraints:  constraint.Table{"temperature": constraint.Range{Min: 0, Max: 1}},
	}
	p, err := mapper.NewPipeline(mapper.Field("temperature", "temperature"))
	if err != nil {
		panic(err)
	}
	client, err := lifecycle.New(m, model.CapabilityTextGeneration, p, echoTransport{}, lifecycle.Hooks[string, string]{
		Seed: func(prompt string) (mapper.Request, error) {
			return mapper.Request{"prompt": prompt}, nil
		},
		ParseContent: func(resp lifecycle.Response) (string, error) {
			return resp["text"].(string), nil
		},
	}, lifecycle.WithRequestID(func() string { return "req-42" }))
	if err != nil {
		panic(err)
	}

	out, err := client.Generate(context.Background(), "hi", mapper.Params{"temperature": 0.5})
	if err != nil {
		panic(err)
	}
	fmt.Println(out.Content)
	fmt.Println(out.Metadata[lifecycle.MetaRequestID])

	_, err = client.Generate(context.Background(), "hi", mapper.Params{"temperature": 3})
	fmt.Println(errors.Is(err, unifai.ErrConstraintViolation))
	fmt.Println(err)
	// Output:
	// echo hi at 0.5
	// req-42
	// true
	// mapper "temperature": unifai: parameter "temperature": must be between 0 and 1, got 3
}
