package resolver

import (
	"context"
	"encoding/json"
	"errors"
	htmltemplate "html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	texttemplate "text/template"

	"github.com/fsnotify/fsnotify"
)

type cachedTemplate struct {
	script *texttemplate.Template
	html   *htmltemplate.Template
	err    error
}

// TemplateStore loads templates from a directory and caches both hits and
// misses until Invalidate. Script fragments use text/template since their
// output is raw JavaScript; the modal uses html/template.
type TemplateStore struct {
	fsys   fs.FS
	dir    string
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]cachedTemplate
	// gen counts invalidations; a load started under an older gen is not cached.
	gen uint64
}

// NewTemplateStore serves templates from dir on disk. Watch keeps the cache fresh.
func NewTemplateStore(dir string, logger *slog.Logger) *TemplateStore {
	s := NewTemplateStoreFS(os.DirFS(dir), logger)
	s.dir = dir
	return s
}

// NewTemplateStoreFS serves templates from fsys. It cannot be watched.
func NewTemplateStoreFS(fsys fs.FS, logger *slog.Logger) *TemplateStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemplateStore{
		fsys:   fsys,
		logger: logger,
		cache:  make(map[string]cachedTemplate),
	}
}

var funcs = map[string]any{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}

// Script returns the first existing template among paths. It returns nil, nil
// when none exists and the parse error of the first existing one otherwise.
func (s *TemplateStore) Script(paths ...string) (*texttemplate.Template, error) {
	for _, p := range paths {
		c := s.load("text:"+p, p, func(name string, src []byte) cachedTemplate {
			t, err := texttemplate.New(name).Funcs(funcs).Parse(string(src))
			return cachedTemplate{script: t, err: err}
		})
		if c.err != nil {
			return nil, c.err
		}
		if c.script != nil {
			return c.script, nil
		}
	}
	return nil, nil
}

// HTML is Script for html/template.
func (s *TemplateStore) HTML(paths ...string) (*htmltemplate.Template, error) {
	for _, p := range paths {
		c := s.load("html:"+p, p, func(name string, src []byte) cachedTemplate {
			t, err := htmltemplate.New(name).Funcs(funcs).Parse(string(src))
			return cachedTemplate{html: t, err: err}
		})
		if c.err != nil {
			return nil, c.err
		}
		if c.html != nil {
			return c.html, nil
		}
	}
	return nil, nil
}

func (s *TemplateStore) load(key, name string, parse func(string, []byte) cachedTemplate) cachedTemplate {
	s.mu.RLock()
	c, ok := s.cache[key]
	gen := s.gen
	s.mu.RUnlock()
	if ok {
		return c
	}

	src, err := fs.ReadFile(s.fsys, name)
	switch {
	case err == nil:
		c = parse(name, src)
	case errors.Is(err, fs.ErrNotExist):
		c = cachedTemplate{}
	default:
		c = cachedTemplate{err: err}
	}

	s.mu.Lock()
	if s.gen == gen {
		s.cache[key] = c
	}
	s.mu.Unlock()
	return c
}

// Invalidate drops every cached template and miss.
func (s *TemplateStore) Invalidate() {
	s.mu.Lock()
	s.cache = make(map[string]cachedTemplate)
	s.gen++
	s.mu.Unlock()
}

// Watch invalidates the cache whenever a file under the template directory
// changes. It blocks until ctx is done.
func (s *TemplateStore) Watch(ctx context.Context) error {
	if s.dir == "" {
		return errors.New("template store has no directory to watch")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := s.addTree(watcher, s.dir); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "watching templates", "dir", s.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = s.addTree(watcher, event.Name)
				}
			}
			s.Invalidate()
			s.logger.DebugContext(ctx, "template cache invalidated", "path", event.Name, "op", event.Op.String())
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.WarnContext(ctx, "template watcher error", "error", err)
		}
	}
}

// addTree watches root and all its subdirectories; fsnotify is not recursive.
func (s *TemplateStore) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}
