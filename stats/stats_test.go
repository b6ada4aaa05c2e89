package stats

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"quill/models"
)

func row(key string, n int64) models.GroupCount {
	return models.GroupCount{Key: &key, Count: n}
}

type stubRepo struct {
	roles, statuses []models.GroupCount
	byAuthor        map[string][]models.GroupCount
	err             error
}

func (s *stubRepo) RoleCounts(context.Context) ([]models.GroupCount, error) {
	return s.roles, s.err
}

func (s *stubRepo) StatusCounts(context.Context) ([]models.GroupCount, error) {
	return s.statuses, nil
}

func (s *stubRepo) AuthorStatusCounts(_ context.Context, email string) ([]models.GroupCount, error) {
	return s.byAuthor[email], s.err
}

func newRouter(repo Repository) *httprouter.Router {
	h := NewHandler(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := httprouter.New()
	router.GET("/admin-stats", h.Admin)
	router.GET("/author-stats/:email", h.Author)
	return router
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPipelines(t *testing.T) {
	group := bson.D{{Key: "$group", Value: bson.M{"_id": "$role", "count": bson.M{"$sum": 1}}}}
	assert.Equal(t, mongo.Pipeline{group}, RolePipeline())

	p := AuthorStatusPipeline("a@example.com")
	require.Len(t, p, 2)
	assert.Equal(t, bson.D{{Key: "$match", Value: bson.M{"author.email": "a@example.com"}}}, p[0])
	assert.Equal(t, StatusPipeline()[0], p[1])
}

func TestTallyGroupsMissingKeyUnderEmpty(t *testing.T) {
	c := Tally([]models.GroupCount{row("admin", 2), {Key: nil, Count: 4}})
	assert.Equal(t, Counts{"admin": 2, "": 4}, c)
}

func TestAdminStatsExample(t *testing.T) {
	router := newRouter(&stubRepo{
		roles:    []models.GroupCount{row("admin", 2), row("author", 3), row("reader", 1)},
		statuses: []models.GroupCount{row("pending", 1), row("approved", 4)},
	})

	rec := get(router, "/admin-stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"users": 5, "blogs": 5,
		"totalAdmin": 2, "totalAuthor": 3,
		"totalPendingBlogs": 1, "totalApprovedBlogs": 4, "totalDeniedBlogs": 0
	}`, rec.Body.String())
}

func TestAdminStatsEmptyStore(t *testing.T) {
	rec := get(newRouter(&stubRepo{}), "/admin-stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":0,"blogs":0,"totalAdmin":0,"totalAuthor":0,
		"totalPendingBlogs":0,"totalApprovedBlogs":0,"totalDeniedBlogs":0}`, rec.Body.String())
}

func TestAdminStatsFailure(t *testing.T) {
	rec := get(newRouter(&stubRepo{err: errors.New("timeout")}), "/admin-stats")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthorStats(t *testing.T) {
	router := newRouter(&stubRepo{byAuthor: map[string][]models.GroupCount{
		"a@example.com": {row("approved", 3), row("denied", 1)},
	}})

	rec := get(router, "/author-stats/a@example.com")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalBlogs":4,"totalPendingBlogs":0,"totalApprovedBlogs":3,"totalDeniedBlogs":1}`,
		rec.Body.String())

	rec = get(router, "/author-stats/new@example.com")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalBlogs":0,"totalPendingBlogs":0,"totalApprovedBlogs":0,"totalDeniedBlogs":0}`,
		rec.Body.String())
}
