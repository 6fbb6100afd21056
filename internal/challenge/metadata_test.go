package challenge

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetadata(t *testing.T) (*MetadataStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "challenges.json")
	store, err := NewMetadataStore(path, zerolog.Nop())
	require.NoError(t, err)
	return store, path
}

func TestMetadataLoadMissingAndMalformed(t *testing.T) {
	store, path := newTestMetadata(t)

	records, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	records, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMetadataSaveKeepsNonASCIIAndIndent(t *testing.T) {
	store, path := newTestMetadata(t)

	require.NoError(t, store.Save([]Challenge{{ID: "solar01", Title: "Energía <Solar>", Desc: "Niñas & paneles"}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "Energía <Solar>")
	assert.Contains(t, text, "Niñas & paneles")
	assert.True(t, strings.HasPrefix(text, "[\n    {"), "document should be indented with four spaces")
}

func TestMetadataUpsertUpdatesInPlace(t *testing.T) {
	store, _ := newTestMetadata(t)

	created, err := store.Upsert(Challenge{ID: "a", Title: "A", Date: "2026-01-01", Path: "retos/a/index.html"})
	require.NoError(t, err)
	assert.True(t, created)
	_, err = store.Upsert(Challenge{ID: "b", Title: "B", Date: "2026-01-01"})
	require.NoError(t, err)

	created, err = store.Upsert(Challenge{ID: "a", Title: "A2", Desc: "new", Date: "2026-02-02", Path: "elsewhere"})
	require.NoError(t, err)
	assert.False(t, created)

	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "A2", records[0].Title)
	assert.Equal(t, "new", records[0].Desc)
	assert.Equal(t, "2026-02-02", records[0].Date)
	assert.Equal(t, "retos/a/index.html", records[0].Path, "path is kept from the original row")
	assert.Equal(t, "b", records[1].ID)
}

func TestMetadataRemove(t *testing.T) {
	store, _ := newTestMetadata(t)
	require.NoError(t, store.Save([]Challenge{{ID: "a"}, {ID: "b"}, {ID: "c"}}))

	require.NoError(t, store.Remove("b"))
	records, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(records))

	assert.ErrorIs(t, store.Remove("missing"), ErrNotFound)
	records, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(records))
}

func TestMetadataConcurrentUpsertsAreNotLost(t *testing.T) {
	store, _ := newTestMetadata(t)

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Upsert(Challenge{ID: string(rune('a'+i%26)) + "-" + strings.Repeat("x", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	records, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, records, n)
}

func ids(records []Challenge) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
