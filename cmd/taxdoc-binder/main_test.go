package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/a3tai/taxdoc-binder/internal/outline"
	"github.com/a3tai/taxdoc-binder/internal/pipeline"
	"github.com/a3tai/taxdoc-binder/internal/textcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn", "json")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "doc", "w2.pdf")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"doc":"w2.pdf"`)

	buf.Reset()
	logger, err = newLogger(&buf, "debug", "console")
	require.NoError(t, err)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")

	_, err = newLogger(&buf, "trace", "console")
	assert.Error(t, err)
	_, err = newLogger(&buf, "info", "xml")
	assert.Error(t, err)
}

func TestRenderPreview(t *testing.T) {
	root := outline.NewRoot()
	income := outline.Section("Income")
	w2 := outline.Section("W-2")
	w2.AddPage(model.PageRef{Path: "w2.pdf"}, "ACME")
	income.Adopt(w2)
	root.Adopt(income)

	others := outline.Section("Others")
	unused := outline.Section("Unused")
	unused.AddPage(model.PageRef{Path: "a.pdf"}, "")
	unused.AddPage(model.PageRef{Path: "a.pdf", Index: 1}, "")
	others.Adopt(unused)
	root.Adopt(others)

	out := renderPreview(root)
	for _, want := range []string{"Income", "W-2", "ACME", "w2.pdf p1", "Unused", "(2 pages)"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "Income"), strings.Index(out, "Others"))
}

func TestRenderSummary(t *testing.T) {
	s := renderSummary(pipeline.Summary{Documents: 2, InputPages: 5, OutputPages: 5, DuplicatePages: 1, Bookmarks: 7})
	assert.Equal(t, "2 documents, 5 pages in, 5 pages out, 1 duplicate pages, 0 duplicate files, 0 unused, 7 bookmarks", s)
}

func TestRootCommand(t *testing.T) {
	root := rootCmd()
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"bind", "classify", "serve", "version"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("ocr-threshold"))
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestVersionCommand(t *testing.T) {
	root := rootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "taxdoc-binder dev")
}

func TestLogCacheStats(t *testing.T) {
	cache := textcache.NewMemory(8)
	ctx := context.Background()
	key := textcache.Key{Hash: "abc", Page: 0}
	require.NoError(t, cache.Put(ctx, key, textcache.Entry{Text: "Form W-2", Source: "text"}))
	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	_, _, err = cache.Get(ctx, textcache.Key{Hash: "abc", Page: 1})
	require.NoError(t, err)

	var buf bytes.Buffer
	logger, err := newLogger(&buf, "info", "console")
	require.NoError(t, err)
	logCacheStats(logger, cache)
	out := buf.String()
	assert.Contains(t, out, "hits=1")
	assert.Contains(t, out, "misses=1")
	assert.Contains(t, out, "hit_rate=50.0%")
	assert.Contains(t, out, "size=1")

	buf.Reset()
	logCacheStats(logger, nil)
	assert.Empty(t, buf.String())
}
