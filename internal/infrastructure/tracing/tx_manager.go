package tracing

import (
	"context"

	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/umcorp/users-management/internal/usecase/port"
)

// TxManagerTracer wraps a TxManager so every transaction scope shows up as
// one span covering begin-through-commit/rollback.
type TxManagerTracer struct {
	tx port.TxManager
}

// NewTxManagerTracer decorates tx with tracing.
func NewTxManagerTracer(tx port.TxManager) port.TxManager {
	return &TxManagerTracer{tx: tx}
}

func (t *TxManagerTracer) WithinTx(ctx context.Context, fn func(ctx context.Context, users port.UserRepository) error) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.tx")
	defer span.Finish()
	span.SetTag("db.type", "mysql")

	err := t.tx.WithinTx(ctx, fn)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		span.SetTag("tx.committed", false)
		return err
	}
	span.SetTag("tx.committed", true)
	return nil
}
