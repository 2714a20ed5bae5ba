package resolver

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateStoreCachesMisses(t *testing.T) {
	fsys := fstest.MapFS{}
	store := NewTemplateStoreFS(fsys, nil)

	tmpl, err := store.Script("scripts/analytics.tmpl")
	require.NoError(t, err)
	assert.Nil(t, tmpl)

	fsys["scripts/analytics.tmpl"] = &fstest.MapFile{Data: []byte("x")}
	tmpl, err = store.Script("scripts/analytics.tmpl")
	require.NoError(t, err)
	assert.Nil(t, tmpl, "miss stays cached until invalidated")

	store.Invalidate()
	tmpl, err = store.Script("scripts/analytics.tmpl")
	require.NoError(t, err)
	require.NotNil(t, tmpl)
}

func TestTemplateStoreFirstExistingPathWins(t *testing.T) {
	store := NewTemplateStoreFS(fstest.MapFS{
		"b.tmpl": &fstest.MapFile{Data: []byte("b")},
		"c.tmpl": &fstest.MapFile{Data: []byte("c")},
	}, nil)
	tmpl, err := store.Script("a.tmpl", "b.tmpl", "c.tmpl")
	require.NoError(t, err)
	assert.Equal(t, "b.tmpl", tmpl.Name())
}

func TestTemplateStoreHTMLEscapes(t *testing.T) {
	store := NewTemplateStoreFS(fstest.MapFS{
		"modal.tmpl": &fstest.MapFile{Data: []byte(`<p>{{.}}</p>`)},
	}, nil)
	tmpl, err := store.HTML("modal.tmpl")
	require.NoError(t, err)

	var out = new(stringWriter)
	require.NoError(t, tmpl.Execute(out, "<b>Ads</b>"))
	assert.Equal(t, "<p>&lt;b&gt;Ads&lt;/b&gt;</p>", out.String())
}

func TestTemplateStoreJSONFunc(t *testing.T) {
	store := NewTemplateStoreFS(fstest.MapFS{
		"scripts/x.tmpl": &fstest.MapFile{Data: []byte(`var keys = {{json .}};`)},
	}, nil)
	tmpl, err := store.Script("scripts/x.tmpl")
	require.NoError(t, err)
	out := new(stringWriter)
	require.NoError(t, tmpl.Execute(out, map[string]string{"matomo": "7"}))
	assert.Equal(t, `var keys = {"matomo":"7"};`, out.String())
}

func TestScriptTemplatePaths(t *testing.T) {
	assert.Equal(t, []string{"scripts/a.tmpl"}, ScriptTemplatePaths(nil, "scripts", "a"))
}

func TestWatchInvalidatesOnChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))

	store := NewTemplateStore(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	tmpl, err := store.Script("scripts/analytics.tmpl")
	require.NoError(t, err)
	require.Nil(t, tmpl)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	assert.Eventually(t, func() bool {
		// Rewriting keeps producing events until the watcher is registered.
		_ = os.WriteFile(filepath.Join(dir, "scripts", "analytics.tmpl"), []byte("live"), 0o644)
		tmpl, err := store.Script("scripts/analytics.tmpl")
		return err == nil && tmpl != nil
	}, 5*time.Second, 50*time.Millisecond)
}

// gatedFS holds the first Open after the file is opened, so a test can change
// the file and invalidate while a load is in flight.
type gatedFS struct {
	files   fstest.MapFS
	opened  chan struct{}
	release chan struct{}
}

func (g gatedFS) Open(name string) (fs.File, error) {
	f, err := g.files.Open(name)
	select {
	case g.opened <- struct{}{}:
	default:
	}
	<-g.release
	return f, err
}

func TestInvalidateDuringLoadDoesNotCacheStaleTemplate(t *testing.T) {
	files := fstest.MapFS{"scripts/analytics.tmpl": &fstest.MapFile{Data: []byte("OLD")}}
	gated := gatedFS{files: files, opened: make(chan struct{}, 1), release: make(chan struct{})}
	store := NewTemplateStoreFS(gated, nil)

	// render runs off the test goroutine too, so it reports failures as text.
	render := func() string {
		tmpl, err := store.Script("scripts/analytics.tmpl")
		if err != nil || tmpl == nil {
			return "no template"
		}
		out := new(stringWriter)
		if err := tmpl.Execute(out, nil); err != nil {
			return err.Error()
		}
		return out.String()
	}

	inFlight := make(chan string, 1)
	go func() { inFlight <- render() }()

	<-gated.opened
	files["scripts/analytics.tmpl"] = &fstest.MapFile{Data: []byte("NEW")}
	store.Invalidate()
	close(gated.release)

	assert.Equal(t, "OLD", <-inFlight, "the in-flight load returns what it read")
	assert.Equal(t, "NEW", render())
}

func TestWatchRequiresDirectory(t *testing.T) {
	store := NewTemplateStoreFS(fstest.MapFS{}, nil)
	assert.Error(t, store.Watch(context.Background()))
}

type stringWriter struct{ b []byte }

func (w *stringWriter) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

func (w *stringWriter) String() string { return string(w.b) }
