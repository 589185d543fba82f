package ocr

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Invoker performs exactly one model call for a Request. It does not retry:
// transport errors from the engine are returned unmodified so the caller can
// classify them.
type Invoker struct {
	engine Engine
	log    *zap.SugaredLogger
}

func NewInvoker(engine Engine, log *zap.SugaredLogger) *Invoker {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Invoker{engine: engine, log: log}
}

func (i *Invoker) Engine() Engine { return i.engine }

// Invoke reads req.Path, sends it inline with req.Prompt to region and parses
// the answer.
func (i *Invoker) Invoke(ctx context.Context, region string, req Request) (Output, error) {
	data, err := os.ReadFile(req.Path)
	if err != nil {
		return Output{}, fmt.Errorf("read %s: %w", req.Path, err)
	}

	text, err := i.engine.Generate(ctx, region, GenerateInput{
		Prompt:   req.Prompt,
		Data:     data,
		MIMEType: req.MIMEType,
	})
	if err != nil {
		return Output{}, err
	}
	if text == "" {
		i.log.Infow("no text content in candidate",
			"engine", i.engine.Name(), "model", i.engine.GetModel(), "region", region)
		return Output{Records: []Record{}}, nil
	}

	out := ParseOutput(text)
	if out.Malformed {
		i.log.Warnw("model output is not valid JSON, treating as empty",
			"engine", i.engine.Name(), "region", region, "text_len", len(text))
	}
	return out, nil
}
