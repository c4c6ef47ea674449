package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgfleet/internal/retry"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

func fastRetries(n int) HTTPOption {
	return WithBackoff(retry.NewExponentialBackoff(n, retry.WithInitialDelay(time.Millisecond), retry.WithJitter(0)))
}

func newTestHTTPLoader(t *testing.T, opts ...HTTPOption) *HTTPLoader {
	t.Helper()
	l, err := NewHTTPLoader(append([]HTTPOption{fastRetries(2)}, opts...)...)
	require.NoError(t, err)
	return l
}

func TestHTTPLoader_StatusMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.manifest":
			_, _ = w.Write([]byte("pgfleet.default.user=owner\n"))
		case "/secret.manifest":
			w.WriteHeader(http.StatusUnauthorized)
		case "/broken.manifest":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	logger := &recordingLogger{}
	l := newTestHTTPLoader(t, WithLogger(logger))
	base := pgfleet.ContentURI(server.URL)

	t.Run("200 yields body", func(t *testing.T) {
		content, found, err := l.Load(context.Background(), base.Child("ok.manifest"))
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "pgfleet.default.user=owner\n", content)
	})

	t.Run("404 yields absence", func(t *testing.T) {
		_, found, err := l.Load(context.Background(), base.Child("missing.manifest"))
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("401 yields absence and warning", func(t *testing.T) {
		_, found, err := l.Load(context.Background(), base.Child("secret.manifest"))
		require.NoError(t, err)
		assert.False(t, found)
		require.Len(t, logger.warns, 1)
		assert.Contains(t, logger.warns[0], "secret.manifest")
	})

	t.Run("500 yields loader failure", func(t *testing.T) {
		_, _, err := l.Load(context.Background(), base.Child("broken.manifest"))
		require.ErrorIs(t, err, pgfleet.ErrLoaderFailure)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode())
	})
}

func TestHTTPLoader_BasicAuth(t *testing.T) {
	var gotUser, gotPassword string
	var gotAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPassword, gotAuth = r.BasicAuth()
		_, _ = w.Write([]byte("x"))
	}))
	defer server.Close()

	t.Run("placeholders send no credentials", func(t *testing.T) {
		l := newTestHTTPLoader(t)
		assert.False(t, l.Authenticated())
		_, _, err := l.Load(context.Background(), pgfleet.ContentURI(server.URL+"/a"))
		require.NoError(t, err)
		assert.False(t, gotAuth)
	})

	t.Run("configured credentials are sent", func(t *testing.T) {
		l := newTestHTTPLoader(t, WithCredentials("deployer", "s3cret"))
		assert.True(t, l.Authenticated())
		_, _, err := l.Load(context.Background(), pgfleet.ContentURI(server.URL+"/a"))
		require.NoError(t, err)
		assert.True(t, gotAuth)
		assert.Equal(t, "deployer", gotUser)
		assert.Equal(t, "s3cret", gotPassword)
	})

	t.Run("empty login sends no credentials", func(t *testing.T) {
		l := newTestHTTPLoader(t, WithCredentials("", "pw"))
		assert.False(t, l.Authenticated())
	})
}

func TestHTTPLoader_RetriesGatewayErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("eventually"))
	}))
	defer server.Close()

	content, found, err := newTestHTTPLoader(t).Load(context.Background(), pgfleet.ContentURI(server.URL+"/m"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "eventually", content)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPLoader_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, _, err := newTestHTTPLoader(t).Load(context.Background(), pgfleet.ContentURI(server.URL+"/m"))
	assert.ErrorIs(t, err, pgfleet.ErrLoaderFailure)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPLoader_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, _, err := newTestHTTPLoader(t, fastRetries(0)).Load(context.Background(), pgfleet.ContentURI(url+"/m"))
	assert.ErrorIs(t, err, pgfleet.ErrLoaderFailure)
}

func TestHTTPLoader_Charset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// "café" in ISO-8859-1
		_, _ = w.Write([]byte{'c', 'a', 'f', 0xe9})
	}))
	defer server.Close()

	l := newTestHTTPLoader(t, WithCharset("iso-8859-1"))
	content, found, err := l.Load(context.Background(), pgfleet.ContentURI(server.URL+"/m"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "café", content)
}

func TestNewHTTPLoader_UnknownCharset(t *testing.T) {
	_, err := NewHTTPLoader(WithCharset("klingon-8"))
	assert.ErrorIs(t, err, pgfleet.ErrInvalidConfig)
}

func TestHTTPLoader_ListFolder(t *testing.T) {
	var indexPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/units/users/":
			indexPath = r.URL.Path
			_, _ = w.Write([]byte("users.1.sql\nusers.2.sql  orders.1.sql\n\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	l := newTestHTTPLoader(t)
	folder := pgfleet.ContentURI(server.URL + "/units/users")

	listing, err := l.ListFolder(context.Background(), folder, "users.*")
	require.NoError(t, err)
	assert.Equal(t, "/units/users/", indexPath)
	assert.Equal(t, []pgfleet.ContentURI{
		folder + "/users.1.sql",
		folder + "/users.2.sql",
	}, listing)

	missing, err := l.ListFolder(context.Background(), pgfleet.ContentURI(server.URL+"/units/ledger/"), "")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestHTTPLoader_Accepts(t *testing.T) {
	l := newTestHTTPLoader(t)
	assert.True(t, l.Accepts("http://h/x"))
	assert.True(t, l.Accepts("HTTPS://h/x"))
	assert.False(t, l.Accepts("file:///x"))
}
