package stats

import (
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"

	"quill/models"
	"quill/utils"
)

type Handler struct {
	repo   Repository
	logger *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Admin runs the user and blog groupings concurrently; they read different
// collections so their order does not matter.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var roles, statuses []models.GroupCount

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		roles, err = h.repo.RoleCounts(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		statuses, err = h.repo.StatusCounts(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("admin stats failed", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, Admin(Tally(roles), Tally(statuses)))
}

func (h *Handler) Author(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := ps.ByName("email")
	rows, err := h.repo.AuthorStatusCounts(r.Context(), email)
	if err != nil {
		h.logger.Error("author stats failed", "email", email, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, Author(Tally(rows)))
}
