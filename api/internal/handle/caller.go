package handle

import (
	"go.uber.org/zap"

	"deduction-ocr/api/internal/failover"
	"deduction-ocr/api/internal/ocr"
	"deduction-ocr/api/internal/pipeline"
)

// FailoverCallers returns a factory that wraps engine in a fresh failover
// controller per request, logging through that request's logger.
func FailoverCallers(engine ocr.Engine, opts failover.Options) CallerFactory {
	return func(log *zap.SugaredLogger) pipeline.Caller {
		o := opts
		o.Log = log
		return failover.New(ocr.NewInvoker(engine, log), o)
	}
}
