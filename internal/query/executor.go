package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/observability"
)

type ExecutorConfig struct {
	Timeout time.Duration
	MaxRows int
}

// Executor guards an Engine: it only forwards single read-only statements,
// bounds each call with a timeout, and converts every failure (including
// engine panics) into an unsuccessful ExecutionResult.
type Executor struct {
	engine  Engine
	timeout time.Duration
	maxRows int
	logger  *slog.Logger
}

func NewExecutor(engine Engine, cfg ExecutorConfig, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{
		engine:  engine,
		timeout: cfg.Timeout,
		maxRows: cfg.MaxRows,
		logger:  logger,
	}
}

func (e *Executor) Execute(ctx context.Context, sqlText string) (result ExecutionResult) {
	start := time.Now()
	engineName := e.engine.Name()
	defer func() {
		if recovered := recover(); recovered != nil {
			result = failed(fmt.Errorf("query engine panic: %v", recovered), time.Since(start))
		}
		observability.ObserveQueryExecution(engineName, result.Success, result.Duration)
	}()

	if err := CheckReadOnly(sqlText); err != nil {
		e.logger.DebugContext(ctx, "query rejected by read-only guard", slog.String("error", err.Error()))
		return failed(err, time.Since(start))
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	out, err := e.engine.Execute(ctx, Request{
		SQL:     StripTrailingSemicolons(sqlText),
		MaxRows: e.maxRows,
	})
	if err != nil {
		e.logger.DebugContext(ctx, "query execution failed",
			slog.String("engine", engineName),
			slog.String("error", err.Error()),
		)
		return failed(err, time.Since(start))
	}

	rows := out.Rows
	if rows == nil {
		rows = [][]any{}
	}
	columns := out.Columns
	if columns == nil {
		columns = []string{}
	}
	return ExecutionResult{
		Success:   true,
		Columns:   columns,
		Rows:      rows,
		RowCount:  len(rows),
		Truncated: out.Truncated,
		Duration:  time.Since(start),
	}
}

func (e *Executor) Ping(ctx context.Context) error {
	return e.engine.Ping(ctx)
}

func (e *Executor) EngineName() string {
	return e.engine.Name()
}
