package nl2sql

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/catalog"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/llm"
)

type GenerateInput struct {
	Goal     string
	Tables   []string
	Question string
	Attempt  int
}

type Generator struct {
	client  llm.Client
	catalog *catalog.Catalog
	dialect Dialect
	logger  *slog.Logger
}

func NewGenerator(client llm.Client, cat *catalog.Catalog, dialect Dialect, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if dialect == "" {
		dialect = DialectDuckDB
	}
	return &Generator{client: client, catalog: cat, dialect: dialect, logger: logger}
}

// Generate asks the model for one candidate query. On a model failure the
// returned text is generationFailureSQL(err), so the attempt can still be
// recorded.
func (g *Generator) Generate(ctx context.Context, in GenerateInput) (string, llm.Usage, error) {
	completion, err := g.client.Complete(ctx, g.buildPrompt(in), sqlMaxTokens)
	if err != nil {
		g.logger.WarnContext(ctx, "sql generation failed",
			slog.Int("attempt", in.Attempt),
			slog.String("error", err.Error()),
		)
		return generationFailureSQL(err), completion.Usage, err
	}
	sqlText := stripMarkdownSQL(completion.Text)
	g.logger.InfoContext(ctx, "sql generated", slog.Int("attempt", in.Attempt), slog.String("sql", sqlText))
	return sqlText, completion.Usage, nil
}

func (g *Generator) buildPrompt(in GenerateInput) string {
	guide := guideFor(g.dialect)
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert SQL developer. Generate a SQL query based on the following:\n\n")
	fmt.Fprintf(&b, "Goal: %s\n", in.Goal)
	fmt.Fprintf(&b, "User Query: %q\n", in.Question)
	fmt.Fprintf(&b, "Attempt: %d/%d\n\n", in.Attempt, MaxAttempts)
	fmt.Fprintf(&b, "Relevant Tables Schema:\n%s\n", g.catalog.Summarize(in.Tables))
	fmt.Fprintf(&b, "Example Queries (%s Syntax):\n%s\n\n", guide.label, guide.examples)
	fmt.Fprintf(&b, "IMPORTANT %s Requirements:\n%s\n\n", guide.label, guide.rules)
	fmt.Fprintf(&b, `Requirements:
1. Generate a single, well-formatted SQL SELECT query
2. Use proper JOINs when accessing multiple tables
3. Include relevant WHERE clauses to filter data appropriately
4. Use meaningful column aliases for better readability
5. Add ORDER BY and LIMIT clauses when appropriate
6. Only SELECT data - no INSERT, UPDATE, DELETE, DROP operations
7. Use %s-compatible syntax (see examples above)
8. When queries involve "given customer", "each customer", or "per customer", show data for ALL customers using GROUP BY and meaningful customer identifiers like CustomerName
9. Avoid hardcoded customer codes - instead use realistic approaches that show actual data

Respond with only the SQL query, no additional text or formatting:
`, guide.label)
	return b.String()
}

// generationFailureSQL is the attempt text recorded when the model could not
// produce a query. It never passes validation.
func generationFailureSQL(err error) string {
	return "-- Error generating SQL query: " + err.Error()
}
