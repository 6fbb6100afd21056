package challenge

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/ingenieras/internal/fsstore"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	meta, err := NewMetadataStore(filepath.Join(root, "challenges.json"), zerolog.Nop())
	require.NoError(t, err)
	repo, err := NewRepository(filepath.Join(root, "retos"))
	require.NoError(t, err)

	clock := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	svc := NewService(meta, repo, zerolog.Nop(), ServiceOptions{Now: func() time.Time { return clock }})
	return svc, root
}

func TestPublishThenFetchReturnsLatestHTML(t *testing.T) {
	svc, root := newTestService(t)
	ctx := context.Background()

	_, err := svc.Publish(ctx, PublishRequest{ID: "X", Title: "First", Desc: "d", HTML: []byte("<p>one</p>")})
	require.NoError(t, err)
	_, err = svc.Publish(ctx, PublishRequest{ID: "X", Title: "Second", Desc: "d2", HTML: []byte("<p>two</p>")})
	require.NoError(t, err)

	doc, err := svc.Document(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, "<p>two</p>", string(doc))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1, "republishing must not duplicate the entry")
	assert.Equal(t, "Second", list[0].Title)
	assert.Equal(t, "d2", list[0].Desc)
	assert.Equal(t, "2026-10-16", list[0].Date)
	assert.Equal(t, filepath.Join(root, "retos", "X", DocumentName), list[0].Path)
}

func TestDocumentUnknownIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Document(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUnknownLeavesMetadataUnchanged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Publish(ctx, PublishRequest{ID: "keep", Title: "K", HTML: []byte("k")})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "ghost"), ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, ids(list))
}

func TestDeleteRemovesMetadataAndDirectory(t *testing.T) {
	svc, root := newTestService(t)
	ctx := context.Background()
	_, err := svc.Publish(ctx, PublishRequest{ID: "gone", Title: "G", HTML: []byte("g")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "gone"))

	_, err = os.Stat(filepath.Join(root, "retos", "gone"))
	assert.True(t, os.IsNotExist(err))
	_, err = svc.Document(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteWithOrphanedMetadataSucceeds(t *testing.T) {
	svc, root := newTestService(t)
	ctx := context.Background()
	_, err := svc.Publish(ctx, PublishRequest{ID: "orphan", Title: "O", HTML: []byte("o")})
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "retos", "orphan")))

	assert.NoError(t, svc.Delete(ctx, "orphan"))
}

func TestPathTraversalIsRejectedEverywhere(t *testing.T) {
	svc, root := newTestService(t)
	ctx := context.Background()

	for _, id := range []string{"..", "../escape", "a/b", `a\b`} {
		_, err := svc.Publish(ctx, PublishRequest{ID: id, Title: "t", HTML: []byte("x")})
		assert.ErrorIs(t, err, fsstore.ErrInvalidName, id)
		_, err = svc.Document(ctx, id)
		assert.ErrorIs(t, err, fsstore.ErrInvalidName, id)
		assert.ErrorIs(t, svc.Delete(ctx, id), fsstore.ErrInvalidName, id)
	}

	_, err := os.Stat(filepath.Join(root, "escape"))
	assert.True(t, os.IsNotExist(err))
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
