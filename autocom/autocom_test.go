package autocom

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newIndex(t *testing.T) (*Index, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, quiet()), client
}

func TestMemberRoundTrip(t *testing.T) {
	m := member("665f1c2e9b1e8a0012345678", "Go | Mongo Tips")
	assert.Equal(t, "go   mongo tips|665f1c2e9b1e8a0012345678|Go | Mongo Tips", m)

	s, ok := parseMember(m)
	require.True(t, ok)
	assert.Equal(t, Suggestion{ID: "665f1c2e9b1e8a0012345678", Title: "Go | Mongo Tips"}, s)

	_, ok = parseMember("garbage")
	assert.False(t, ok)
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, int64(defaultLimit), parseLimit(""))
	assert.Equal(t, int64(defaultLimit), parseLimit("-3"))
	assert.Equal(t, int64(7), parseLimit("7"))
	assert.Equal(t, int64(maxLimit), parseLimit("500"))
}

func TestIndexSearch(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(ctx context.Context, ix *Index) error
		prefix string
		limit  int64
		want   []Suggestion
	}{
		{
			name:   "added title is found by prefix",
			setup:  func(ctx context.Context, ix *Index) error { return ix.Add(ctx, "1", "Go Concurrency") },
			prefix: "go",
			want:   []Suggestion{{ID: "1", Title: "Go Concurrency"}},
		},
		{
			name:   "prefix ignores case",
			setup:  func(ctx context.Context, ix *Index) error { return ix.Add(ctx, "1", "Go Concurrency") },
			prefix: "  GO C",
			want:   []Suggestion{{ID: "1", Title: "Go Concurrency"}},
		},
		{
			name:   "no match",
			setup:  func(ctx context.Context, ix *Index) error { return ix.Add(ctx, "1", "Go Concurrency") },
			prefix: "py",
			want:   []Suggestion{},
		},
		{
			name: "retitle drops the old prefix",
			setup: func(ctx context.Context, ix *Index) error {
				if err := ix.Add(ctx, "1", "Go Concurrency"); err != nil {
					return err
				}
				return ix.Add(ctx, "1", "Rust Ownership")
			},
			prefix: "go",
			want:   []Suggestion{},
		},
		{
			name: "retitle indexes the new prefix",
			setup: func(ctx context.Context, ix *Index) error {
				if err := ix.Add(ctx, "1", "Go Concurrency"); err != nil {
					return err
				}
				return ix.Add(ctx, "1", "Rust Ownership")
			},
			prefix: "rust",
			want:   []Suggestion{{ID: "1", Title: "Rust Ownership"}},
		},
		{
			name: "remove clears the title",
			setup: func(ctx context.Context, ix *Index) error {
				if err := ix.Add(ctx, "1", "Go Concurrency"); err != nil {
					return err
				}
				return ix.Remove(ctx, "1")
			},
			prefix: "go",
			want:   []Suggestion{},
		},
		{
			name: "blank title removes the entry",
			setup: func(ctx context.Context, ix *Index) error {
				if err := ix.Add(ctx, "1", "Go Concurrency"); err != nil {
					return err
				}
				return ix.Add(ctx, "1", "   ")
			},
			prefix: "go",
			want:   []Suggestion{},
		},
		{
			name:   "removing an unknown id is a no-op",
			setup:  func(ctx context.Context, ix *Index) error { return ix.Remove(ctx, "404") },
			prefix: "go",
			want:   []Suggestion{},
		},
		{
			name: "limit is honoured in lexical order",
			setup: func(ctx context.Context, ix *Index) error {
				for id, title := range map[string]string{"1": "Go A", "2": "Go B", "3": "Go C"} {
					if err := ix.Add(ctx, id, title); err != nil {
						return err
					}
				}
				return nil
			},
			prefix: "go",
			limit:  2,
			want:   []Suggestion{{ID: "1", Title: "Go A"}, {ID: "2", Title: "Go B"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, _ := newIndex(t)
			ctx := context.Background()
			require.NoError(t, tt.setup(ctx, ix))

			limit := tt.limit
			if limit == 0 {
				limit = defaultLimit
			}
			got, err := ix.Search(ctx, tt.prefix, limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemoveCleansBothKeys(t *testing.T) {
	ix, client := newIndex(t)
	ctx := context.Background()

	require.NoError(t, ix.Add(ctx, "1", "Go Concurrency"))
	require.NoError(t, ix.Add(ctx, "1", "Go Generics"))
	assert.Equal(t, int64(1), client.ZCard(ctx, titlesKey).Val())
	assert.Equal(t, "go generics|1|Go Generics", client.HGet(ctx, idsKey, "1").Val())

	require.NoError(t, ix.Remove(ctx, "1"))
	assert.Zero(t, client.ZCard(ctx, titlesKey).Val())
	assert.Zero(t, client.HLen(ctx, idsKey).Val())
}

func TestSuggestHandler(t *testing.T) {
	ix, _ := newIndex(t)
	ctx := context.Background()
	require.NoError(t, ix.Add(ctx, "1", "Go A"))
	require.NoError(t, ix.Add(ctx, "2", "Go B"))

	rec := httptest.NewRecorder()
	ix.Suggest(rec, httptest.NewRequest(http.MethodGet, "/blogs/suggest?q=go&limit=1", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"1","title":"Go A"}]`, rec.Body.String())
}

func TestSuggestEmptyQuery(t *testing.T) {
	ix := New(nil, quiet())
	rec := httptest.NewRecorder()
	ix.Suggest(rec, httptest.NewRequest(http.MethodGet, "/blogs/suggest?q=%20", nil), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSuggestStoreError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	ix := New(client, quiet())
	mr.Close()

	rec := httptest.NewRecorder()
	ix.Suggest(rec, httptest.NewRequest(http.MethodGet, "/blogs/suggest?q=go", nil), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
}
