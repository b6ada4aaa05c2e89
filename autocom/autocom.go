package autocom

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"

	"quill/utils"
)

const (
	titlesKey = "autocomplete:blogs"
	idsKey    = "autocomplete:blogs:ids"

	defaultLimit = 5
	maxLimit     = 20
)

type Suggestion struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Index keeps approved blog titles in a sorted set, all at score 0, so
// ZRANGEBYLEX can answer prefix queries. A hash maps each blog id to its
// current member so a retitled or removed post can be found again.
type Index struct {
	client *redis.Client
	logger *slog.Logger
}

func New(client *redis.Client, logger *slog.Logger) *Index {
	return &Index{client: client, logger: logger}
}

// member is "lowercased title|id|title"; the lowercased part is what
// prefixes match against.
func member(id, title string) string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), "|", " ")
	return key + "|" + id + "|" + title
}

func parseMember(m string) (Suggestion, bool) {
	parts := strings.SplitN(m, "|", 3)
	if len(parts) != 3 {
		return Suggestion{}, false
	}
	return Suggestion{ID: parts[1], Title: parts[2]}, true
}

func (ix *Index) current(ctx context.Context, id string) (string, error) {
	old, err := ix.client.HGet(ctx, idsKey, id).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup title for %s: %w", id, err)
	}
	return old, nil
}

// Add indexes title for id, replacing whatever was indexed for it before.
func (ix *Index) Add(ctx context.Context, id, title string) error {
	if strings.TrimSpace(title) == "" {
		return ix.Remove(ctx, id)
	}
	old, err := ix.current(ctx, id)
	if err != nil {
		return err
	}
	m := member(id, title)
	_, err = ix.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if old != "" && old != m {
			p.ZRem(ctx, titlesKey, old)
		}
		p.ZAdd(ctx, titlesKey, redis.Z{Score: 0, Member: m})
		p.HSet(ctx, idsKey, id, m)
		return nil
	})
	if err != nil {
		return fmt.Errorf("index title for %s: %w", id, err)
	}
	return nil
}

func (ix *Index) Remove(ctx context.Context, id string) error {
	old, err := ix.current(ctx, id)
	if err != nil || old == "" {
		return err
	}
	_, err = ix.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZRem(ctx, titlesKey, old)
		p.HDel(ctx, idsKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("unindex title for %s: %w", id, err)
	}
	return nil
}

// Search returns up to limit titles starting with prefix, ignoring case.
func (ix *Index) Search(ctx context.Context, prefix string, limit int64) ([]Suggestion, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	out := []Suggestion{}
	if prefix == "" {
		return out, nil
	}

	results, err := ix.client.ZRangeByLex(ctx, titlesKey, &redis.ZRangeBy{
		Min:   "[" + prefix,
		Max:   "[" + prefix + "\xff",
		Count: limit,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("search titles: %w", err)
	}
	for _, m := range results {
		if s, ok := parseMember(m); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func parseLimit(raw string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

// Suggest serves GET /blogs/suggest?q=&limit=.
func (ix *Index) Suggest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	suggestions, err := ix.Search(r.Context(), q.Get("q"), parseLimit(q.Get("limit")))
	if err != nil {
		ix.logger.Error("suggest titles failed", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, suggestions)
}
