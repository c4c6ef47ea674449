package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/vvka-141/pgfleet/internal/logging"
	"github.com/vvka-141/pgfleet/internal/retry"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// StatusError reports an HTTP response status the loader does not map to
// content or absence.
type StatusError struct {
	URI  pgfleet.ContentURI
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URI, e.Code, http.StatusText(e.Code))
}

// StatusCode returns the response status.
func (e *StatusError) StatusCode() int { return e.Code }

// HTTPOption is a functional option for configuring the HTTPLoader.
type HTTPOption func(*HTTPLoader)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(l *HTTPLoader) { l.client = client }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(l *HTTPLoader) { l.client.Timeout = timeout }
}

// WithCredentials sets the basic-authentication login and password. The
// placeholder pair pgfleet.DefaultHTTPLogin/DefaultHTTPPassword, or an empty
// login, disables authentication.
func WithCredentials(login, password string) HTTPOption {
	return func(l *HTTPLoader) {
		l.login = login
		l.password = password
	}
}

// WithCharset sets the encoding used to decode response bodies.
func WithCharset(charset string) HTTPOption {
	return func(l *HTTPLoader) { l.charset = charset }
}

// WithRetries sets how many times transient failures are retried.
func WithRetries(retries int) HTTPOption {
	return func(l *HTTPLoader) { l.backoff = retry.NewExponentialBackoff(retries) }
}

// WithBackoff replaces the retry strategy.
func WithBackoff(strategy pgfleet.BackoffStrategy) HTTPOption {
	return func(l *HTTPLoader) { l.backoff = strategy }
}

// WithLogger sets the logger receiving warnings and retry notices.
func WithLogger(logger pgfleet.Logger) HTTPOption {
	return func(l *HTTPLoader) { l.logger = logger }
}

// HTTPLoader serves http: and https: URIs.
//
// Response mapping: 200 is content decoded with the configured charset, 404
// is absence, 401 is absence plus a warning, and anything else fails. Folder
// listings read a whitespace-separated index served at the folder URI.
type HTTPLoader struct {
	client   *http.Client
	login    string
	password string
	charset  string
	encoding encoding.Encoding
	backoff  pgfleet.BackoffStrategy
	executor *retry.Executor
	logger   pgfleet.Logger
}

// NewHTTPLoader creates an HTTPLoader. It fails with pgfleet.ErrInvalidConfig
// when the charset is unknown.
func NewHTTPLoader(opts ...HTTPOption) (*HTTPLoader, error) {
	l := &HTTPLoader{
		client:   &http.Client{Timeout: pgfleet.DefaultHTTPTimeout},
		login:    pgfleet.DefaultHTTPLogin,
		password: pgfleet.DefaultHTTPPassword,
		charset:  pgfleet.DefaultCharset,
		backoff:  retry.NewExponentialBackoff(pgfleet.DefaultHTTPRetries),
		logger:   logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}

	enc, err := htmlindex.Get(l.charset)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", l.charset, pgfleet.ErrInvalidConfig)
	}
	l.encoding = enc

	l.executor = retry.NewExecutor(retry.NewHTTPErrorClassifier(), l.backoff).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			l.logger.Verbose("HTTP retry %d in %v: %v", attempt+1, delay, err)
		})
	return l, nil
}

// Authenticated reports whether requests carry basic-authentication.
func (l *HTTPLoader) Authenticated() bool {
	if l.login == "" {
		return false
	}
	return l.login != pgfleet.DefaultHTTPLogin || l.password != pgfleet.DefaultHTTPPassword
}

func (l *HTTPLoader) Accepts(uri pgfleet.ContentURI) bool {
	switch uri.Scheme() {
	case "http", "https":
		return true
	}
	return false
}

func (l *HTTPLoader) Load(ctx context.Context, uri pgfleet.ContentURI) (string, bool, error) {
	var (
		content string
		found   bool
	)
	err := l.executor.Execute(ctx, func(ctx context.Context) error {
		var err error
		content, found, err = l.get(ctx, uri)
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", pgfleet.ErrLoaderFailure, err)
	}
	return content, found, nil
}

func (l *HTTPLoader) get(ctx context.Context, uri pgfleet.ContentURI) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(uri), nil)
	if err != nil {
		return "", false, fmt.Errorf("build request for %s: %w", uri, err)
	}
	if l.Authenticated() {
		req.SetBasicAuth(l.login, l.password)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("GET %s: %w", uri, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(transform.NewReader(resp.Body, l.encoding.NewDecoder()))
		if err != nil {
			return "", false, fmt.Errorf("read %s: %w", uri, err)
		}
		return string(body), true, nil
	case http.StatusNotFound:
		return "", false, nil
	case http.StatusUnauthorized:
		l.logger.Warn("Unauthorized access to %s; check the HTTP login and password", uri)
		return "", false, nil
	default:
		return "", false, &StatusError{URI: uri, Code: resp.StatusCode}
	}
}

// ListFolder fetches the index at the folder URI (with trailing slash) and
// returns the listed names that match pattern. A missing index is an empty
// listing.
func (l *HTTPLoader) ListFolder(ctx context.Context, folder pgfleet.ContentURI, pattern string) ([]pgfleet.ContentURI, error) {
	p, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	folder = folder.WithTrailingSlash()

	index, found, err := l.Load(ctx, folder)
	if err != nil || !found {
		return nil, err
	}
	return p.children(folder, strings.Fields(index)), nil
}

var _ pgfleet.ContentLoader = (*HTTPLoader)(nil)
