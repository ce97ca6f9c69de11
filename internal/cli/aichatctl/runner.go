package aichatctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Stdout     io.Writer
	Stderr     io.Writer
}

// requestError marks failures talking to the API, as opposed to usage
// errors.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }

func (e *requestError) Unwrap() error { return e.err }

// Run executes one aichatctl invocation and returns the process exit code:
// 0 on success, 1 when the request fails and 2 on usage errors.
func Run(ctx context.Context, args []string, defaults Options) int {
	stdout := defaults.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := defaults.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	root := newRootCmd(defaults, stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return 1
	}
	return 2
}

type client struct {
	baseURL *string
	token   *string
	timeout *time.Duration
	http    *http.Client
	stdout  io.Writer
}

func newRootCmd(defaults Options, stdout io.Writer) *cobra.Command {
	var (
		baseURL string
		token   string
		timeout time.Duration
	)
	c := &client{baseURL: &baseURL, token: &token, timeout: &timeout, http: defaults.HTTPClient, stdout: stdout}

	root := &cobra.Command{
		Use:           "aichatctl",
		Short:         "Ask questions of the AI chat SQL service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "base-url", firstNonEmpty(defaults.BaseURL, "http://localhost:8080"), "API base URL")
	root.PersistentFlags().StringVar(&token, "token", defaults.Token, "bearer token for authenticated requests")
	root.PersistentFlags().DurationVar(&timeout, "timeout", durationOr(defaults.Timeout, 2*time.Minute), "HTTP timeout (e.g. 30s)")

	root.AddCommand(
		newAskCmd(c),
		newSimpleCmd(c, "history <session-id>", "Show the transcript of a session", cobra.ExactArgs(1), http.MethodGet, func(args []string) string {
			return "/v1/sessions/" + url.PathEscape(args[0])
		}),
		newSimpleCmd(c, "clear <session-id>", "Delete the transcript of a session", cobra.ExactArgs(1), http.MethodDelete, func(args []string) string {
			return "/v1/sessions/" + url.PathEscape(args[0])
		}),
		newSimpleCmd(c, "sessions", "List known sessions", cobra.NoArgs, http.MethodGet, staticPath("/v1/sessions")),
		newSimpleCmd(c, "schema", "Show the tables questions can be asked about", cobra.NoArgs, http.MethodGet, staticPath("/v1/schema")),
		newSimpleCmd(c, "health", "Check that the service is up", cobra.NoArgs, http.MethodGet, staticPath("/v1/health")),
		newSimpleCmd(c, "ready", "Check that the service dependencies are ready", cobra.NoArgs, http.MethodGet, staticPath("/v1/ready")),
	)
	return root
}

func newAskCmd(c *client) *cobra.Command {
	var (
		sessionID  string
		answerOnly bool
	)
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question in natural language",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := json.Marshal(map[string]string{
				"session_id": sessionID,
				"message":    strings.Join(args, " "),
			})
			if err != nil {
				return err
			}
			body, err := c.do(cmd.Context(), http.MethodPost, "/v1/chat/sql", payload)
			if err != nil {
				return err
			}
			if answerOnly {
				return writeAnswer(c.stdout, body)
			}
			return writeBody(c.stdout, body)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session-id", "", "continue an existing session")
	cmd.Flags().BoolVar(&answerOnly, "answer-only", false, "print only the answer and the SQL")
	return cmd
}

func newSimpleCmd(c *client, use, short string, args cobra.PositionalArgs, method string, path func([]string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := c.do(cmd.Context(), method, path(args), nil)
			if err != nil {
				return err
			}
			return writeBody(c.stdout, body)
		},
	}
}

func staticPath(path string) func([]string) string {
	return func([]string) string { return path }
}

func (c *client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	httpClient := c.http
	if httpClient == nil {
		httpClient = &http.Client{Timeout: *c.timeout}
	}
	endpoint := strings.TrimRight(*c.baseURL, "/") + path

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, &requestError{err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := strings.TrimSpace(*c.token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &requestError{err: fmt.Errorf("request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &requestError{err: err}
	}
	if resp.StatusCode >= 400 {
		return nil, &requestError{err: fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(responseBody)))}
	}
	return responseBody, nil
}

func writeBody(w io.Writer, body []byte) error {
	if pretty, ok := prettyJSON(body); ok {
		_, err := fmt.Fprintln(w, pretty)
		return err
	}
	if len(body) > 0 {
		_, err := fmt.Fprintln(w, string(body))
		return err
	}
	return nil
}

func writeAnswer(w io.Writer, body []byte) error {
	var result struct {
		Answer    string `json:"natural_language_answer"`
		SQL       string `json:"sql_query"`
		Status    string `json:"status"`
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return &requestError{err: fmt.Errorf("decode chat response: %w", err)}
	}
	_, err := fmt.Fprintf(w, "%s\n\nSQL: %s\nstatus: %s  session: %s\n", result.Answer, result.SQL, result.Status, result.SessionID)
	return err
}

func prettyJSON(raw []byte) (string, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", false
	}
	var anyValue any
	if err := json.Unmarshal(raw, &anyValue); err != nil {
		return "", false
	}
	formatted, err := json.MarshalIndent(anyValue, "", "  ")
	if err != nil {
		return "", false
	}
	return string(formatted), true
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
