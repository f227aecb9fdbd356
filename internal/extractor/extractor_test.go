package extractor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRenderer struct {
	html  string
	err   error
	calls int
}

func (f *fakeRenderer) Render(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.html, f.err
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><head>
			<meta property="og:title" content="Server Side Story">
			<meta name="author" content="Jane Doe">
		</head></html>`))
	}))
	defer srv.Close()

	e := New(Config{UserAgent: "test-bot", Timeout: 5 * time.Second}, nil, zap.NewNop())

	article, err := e.Extract(context.Background(), srv.URL+"/news/1")
	require.NoError(t, err)
	require.Equal(t, "Server Side Story", article.Title)
	require.Equal(t, "Jane Doe", article.Author)
}

func TestExtractor_ExtractFailsOnErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	e := New(Config{Timeout: 5 * time.Second}, nil, zap.NewNop())

	_, err := e.Extract(context.Background(), srv.URL+"/gone")
	require.Error(t, err)
}

func TestExtractor_HeadlessFallbackPromotes(t *testing.T) {
	t.Parallel()

	// Static fetch yields a shell page without a title.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><head></head><body><div id="app"></div></body></html>`))
	}))
	defer srv.Close()

	renderer := &fakeRenderer{html: `<html><head>
		<meta property="og:title" content="Rendered Story">
		<meta name="author" content="Jane Doe">
	</head></html>`}
	e := New(Config{Timeout: 5 * time.Second}, renderer, zap.NewNop())

	article, err := e.Extract(context.Background(), srv.URL+"/spa")
	require.NoError(t, err)
	require.Equal(t, 1, renderer.calls)
	require.Equal(t, "Rendered Story", article.Title)
	require.Equal(t, "Jane Doe", article.Author)
}

func TestExtractor_HeadlessFailureKeepsStaticResult(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><head></head><body><p>shell</p></body></html>`))
	}))
	defer srv.Close()

	renderer := &fakeRenderer{err: errors.New("chrome unavailable")}
	e := New(Config{Timeout: 5 * time.Second}, renderer, zap.NewNop())

	article, err := e.Extract(context.Background(), srv.URL+"/spa")
	require.NoError(t, err)
	require.Equal(t, 1, renderer.calls)
	require.Empty(t, article.Title)
}

func TestExtractor_RendererNotCalledWhenTitlePresent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><head><title>Static</title></head></html>`))
	}))
	defer srv.Close()

	renderer := &fakeRenderer{html: `<html><head><title>Rendered</title></head></html>`}
	e := New(Config{Timeout: 5 * time.Second}, renderer, zap.NewNop())

	article, err := e.Extract(context.Background(), srv.URL+"/static")
	require.NoError(t, err)
	require.Zero(t, renderer.calls)
	require.Equal(t, "Static", article.Title)
}
