package mapper_test

import (
	"fmt"

	"github.com/skosovsky/unifai/constraint"
	"github.com/skosovsky/unifai/mapper"
)

func ExamplePipeline_Build() {
	p, err := mapper.NewPipeline(
		mapper.Field("temperature", "generationConfig.temperature"),
		mapper.Field("max_tokens", "generationConfig.maxOutputTokens"),
	)
	if err != nil {
		panic(err)
	}
	table := constraint.Table{
		"temperature": constraint.Range{Min: 0, Max: 2},
		"max_tokens":  constraint.Int{},
	}
	req, err := p.Build(mapper.Request{"model": "gemini"}, mapper.Params{
		"temperature": 0.7,
		"max_tokens":  nil,
	}, table)
	if err != nil {
		panic(err)
	}
	fmt.Println(req)
	// Output: map[generationConfig:map[temperature:0.7] model:gemini]
}

func ExampleDimensionsSplit() {
	p, _ := mapper.NewPipeline(mapper.DimensionsSplit("size", "width", "height", 16))
	req, err := p.Build(nil, mapper.Params{"size": "1000x700"}, constraint.Table{
		"size": constraint.Dimensions{MinPixels: 1, MaxPixels: 4 << 20, MinAspect: 0.25, MaxAspect: 4},
	})
	if err != nil {
		panic(err)
	}
	fmt.Println(req["width"], req["height"])
	// Output: 1008 704
}
