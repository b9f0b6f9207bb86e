package textcache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry(text string) Entry {
	return Entry{
		Text:   text,
		Source: "text",
		Variants: []model.Variant{
			{Backend: "text", Text: text},
			{Backend: "layout", Text: text + " "},
		},
	}
}

func TestMemory_GetPut(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)

	_, ok, err := m.Get(ctx, Key{Hash: "a", Page: 0})
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Put(ctx, Key{Hash: "a", Page: 0}, sampleEntry("alpha")))
	got, ok, err := m.Get(ctx, Key{Hash: "a", Page: 0})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alpha", got.Text)
	assert.Len(t, got.Variants, 2)

	stats := m.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 50.0, stats.HitRate, 0.001)
}

func TestMemory_Eviction(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)
	a, b, c := Key{"a", 0}, Key{"b", 0}, Key{"c", 0}

	require.NoError(t, m.Put(ctx, a, sampleEntry("a")))
	require.NoError(t, m.Put(ctx, b, sampleEntry("b")))
	_, _, _ = m.Get(ctx, a)
	require.NoError(t, m.Put(ctx, c, sampleEntry("c")))

	assert.Equal(t, 2, m.Stats().Size)
	assert.Equal(t, []Key{c, a}, m.keys())
	_, ok, _ := m.Get(ctx, b)
	assert.False(t, ok)
}

func TestMemory_Update(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	assert.Equal(t, DefaultCapacity, m.Stats().Capacity)

	k := Key{"a", 3}
	require.NoError(t, m.Put(ctx, k, sampleEntry("old")))
	require.NoError(t, m.Put(ctx, k, sampleEntry("new")))
	got, ok, _ := m.Get(ctx, k)
	require.True(t, ok)
	assert.Equal(t, "new", got.Text)
	assert.Equal(t, 1, m.Stats().Size)
	assert.NoError(t, m.Close())
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache", "text.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)

	k := Key{Hash: "d41d8cd98f00b204e9800998ecf8427e", Page: 2}
	_, ok, err := s.Get(ctx, k)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, k, sampleEntry("first")))
	require.NoError(t, s.Put(ctx, k, sampleEntry("second")))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, ok, err := s.Get(ctx, k)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleEntry("second"), got)
}

func TestOpen(t *testing.T) {
	s, err := Open(KindNone, "", 0)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Open(KindMemory, "", 10)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open(KindSQLite, "", 0)
	assert.Error(t, err)

	_, err = Open("redis", "", 0)
	assert.Error(t, err)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "abc:4", Key{Hash: "abc", Page: 4}.String())
}
