// Package pipeline runs one natural-language question through table
// selection, bounded SQL generation and validation, execution and
// explanation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/catalog"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/llm"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/nl2sql"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/observability"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/query"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/session"
)

const errorSQL = "-- Error generating SQL query"

var ErrCompletionUnavailable = errors.New("completion provider unavailable")

type Config struct {
	Catalog  *catalog.Catalog
	Client   llm.Client
	Executor nl2sql.Executor
	Dialect  nl2sql.Dialect
	Sessions *session.Store
	Clock    clockwork.Clock
	Logger   *slog.Logger
}

type Pipeline struct {
	selector  *nl2sql.IntentSelector
	generator *nl2sql.Generator
	validator *nl2sql.Validator
	explainer *nl2sql.Explainer
	executor  nl2sql.Executor
	sessions  *session.Store
	client    llm.Client
	clock     clockwork.Clock
	logger    *slog.Logger
}

func New(cfg Config) (*Pipeline, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("completion client is required")
	}
	if cfg.Executor == nil {
		return nil, fmt.Errorf("query executor is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		selector:  nl2sql.NewIntentSelector(cfg.Client, cfg.Catalog, cfg.Logger),
		generator: nl2sql.NewGenerator(cfg.Client, cfg.Catalog, cfg.Dialect, cfg.Logger),
		validator: nl2sql.NewValidator(cfg.Executor, cfg.Logger),
		explainer: nl2sql.NewExplainer(cfg.Client, cfg.Logger),
		executor:  cfg.Executor,
		sessions:  cfg.Sessions,
		client:    cfg.Client,
		clock:     cfg.Clock,
		logger:    cfg.Logger,
	}, nil
}

// Run always returns a well-formed Result. Failures are reported through
// Status and the answer text, never as an error or panic.
func (p *Pipeline) Run(ctx context.Context, req Request) (result Result) {
	start := p.clock.Now()
	logger := p.logger.With(
		slog.String("session_id", req.SessionID),
		slog.String("trace_id", observability.TraceIDFromContext(ctx)),
	)
	run := &runState{}

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.ErrorContext(ctx, "pipeline panic", slog.Any("panic", recovered))
			result = p.errorResult(ctx, req, start, run, fmt.Errorf("%v", recovered))
		}
		elapsed := time.Duration(result.LatencyMS) * time.Millisecond
		observability.ObservePipelineRun(string(result.Status), result.ValidationAttempts,
			result.TokenUsage.PromptTokens, result.TokenUsage.CompletionTokens, elapsed)
		logger.InfoContext(ctx, "pipeline finished",
			slog.String("status", string(result.Status)),
			slog.Int("attempts", result.ValidationAttempts),
			slog.Int("total_tokens", result.TokenUsage.TotalTokens),
			slog.Int64("latency_ms", result.LatencyMS),
		)
	}()

	logger.InfoContext(ctx, "pipeline started", slog.String("question", req.Message))
	// The session exists from the first question on, even if this run fails.
	p.sessions.Ensure(req.SessionID)

	// SELECTING_TABLES
	selection, usage := p.selector.Select(ctx, req.Message)
	run.usage = run.usage.Add(usage)

	// GENERATING(1..MaxAttempts)
	var (
		finalSQL  string
		validated bool
		execution *query.ExecutionResult
		generated int
	)
	for attempt := 1; attempt <= nl2sql.MaxAttempts; attempt++ {
		sqlText, usage, genErr := p.generator.Generate(ctx, nl2sql.GenerateInput{
			Goal:     selection.Goal,
			Tables:   selection.Tables,
			Question: req.Message,
			Attempt:  attempt,
		})
		run.usage = run.usage.Add(usage)

		record := Attempt{Number: attempt, SQL: sqlText, Timestamp: p.clock.Now().UTC()}
		if genErr != nil {
			record.Check = "generation"
			record.Reason = genErr.Error()
			run.lastErr = genErr
		} else {
			generated++
			verdict := p.validator.Check(ctx, sqlText, selection.Tables)
			record.Valid = verdict.Valid
			record.Check = verdict.Check
			record.Reason = verdict.Reason
			execution = verdict.Execution
		}
		run.attempts = append(run.attempts, record)
		finalSQL = sqlText

		if record.Valid {
			validated = true
			break
		}
		if err := ctx.Err(); err != nil {
			return p.errorResult(ctx, req, start, run, err)
		}
		logger.InfoContext(ctx, "sql attempt rejected",
			slog.Int("attempt", attempt),
			slog.String("check", record.Check),
			slog.String("reason", record.Reason),
		)
	}

	if generated == 0 && selection.Fallback {
		// every model call so far failed
		return p.errorResult(ctx, req, start, run, fmt.Errorf("%w: %v", ErrCompletionUnavailable, run.lastErr))
	}

	// EXECUTING reuses the successful validation run of finalSQL; EXHAUSTED
	// still hands the last text to the executor.
	if !validated {
		logger.WarnContext(ctx, "no valid sql after all attempts, executing last attempt", slog.String("sql", finalSQL))
		exhausted := p.executor.Execute(ctx, finalSQL)
		execution = &exhausted
	}

	// EXPLAINING
	answer, usage := p.explainer.Explain(ctx, nl2sql.ExplainInput{
		Question:  req.Message,
		SQL:       finalSQL,
		Goal:      selection.Goal,
		Execution: execution,
	})
	run.usage = run.usage.Add(usage)

	status := StatusWarning
	if validated && execution != nil && execution.Success {
		status = StatusSuccess
	}

	now := p.clock.Now()
	result = Result{
		NaturalLanguageAnswer: answer,
		SQLQuery:              finalSQL,
		TokenUsage:            run.usage,
		LatencyMS:             now.Sub(start).Milliseconds(),
		Status:                status,
		TableInfo:             append([]string(nil), selection.Tables...),
		ValidationAttempts:    len(run.attempts),
		SessionID:             req.SessionID,
		Goal:                  selection.Goal,
		Attempts:              run.attempts,
		Execution:             execution,
		Provider:              p.client.Provider(),
		Model:                 p.client.Model(),
		Timestamp:             now.UTC(),
	}
	p.record(req, result)
	return result
}

type runState struct {
	attempts []Attempt
	usage    llm.Usage
	lastErr  error
}

func (p *Pipeline) record(req Request, result Result) {
	p.sessions.Append(req.SessionID, session.Record{
		Question:           req.Message,
		Answer:             result.NaturalLanguageAnswer,
		SQLQuery:           result.SQLQuery,
		Status:             string(result.Status),
		TokenUsage:         result.TokenUsage,
		LatencyMS:          result.LatencyMS,
		TableInfo:          result.TableInfo,
		ValidationAttempts: result.ValidationAttempts,
		Timestamp:          result.Timestamp,
	})
}

// errorResult is the outcome of a failure caught at the pipeline boundary:
// an apology, no SQL, zeroed token usage and the latency up to the failure.
func (p *Pipeline) errorResult(ctx context.Context, req Request, start time.Time, run *runState, err error) Result {
	now := p.clock.Now()
	attempts := len(run.attempts)
	if attempts < 1 {
		attempts = 1
	}
	p.logger.ErrorContext(ctx, "pipeline failed",
		slog.String("session_id", req.SessionID),
		slog.String("error", err.Error()),
	)
	return Result{
		NaturalLanguageAnswer: fmt.Sprintf("I apologize, but I encountered an error while processing your query: %s", err),
		SQLQuery:              errorSQL,
		TokenUsage:            llm.Usage{},
		LatencyMS:             now.Sub(start).Milliseconds(),
		Status:                StatusError,
		TableInfo:             []string{},
		ValidationAttempts:    attempts,
		SessionID:             req.SessionID,
		Attempts:              append([]Attempt{}, run.attempts...),
		Provider:              p.client.Provider(),
		Model:                 p.client.Model(),
		Timestamp:             now.UTC(),
	}
}
