package blogs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quill/models"
	"quill/mq"
	"quill/utils"
)

// TitleIndex is the search-as-you-type index of approved titles.
type TitleIndex interface {
	Add(ctx context.Context, id, title string) error
	Remove(ctx context.Context, id string) error
}

type Handler struct {
	repo   Repository
	events mq.Emitter
	titles TitleIndex
	logger *slog.Logger
	now    func() time.Time
}

func NewHandler(repo Repository, events mq.Emitter, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// WithTitleIndex keeps ix in step with approvals, retitles and deletions.
func (h *Handler) WithTitleIndex(ix TitleIndex) *Handler {
	h.titles = ix
	return h
}

type listResponse struct {
	Blogs []models.Blog `json:"blogs"`
	Total int64         `json:"total"`
}

// List serves GET /blogs?page&limit&search[&approved=true].
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, utils.ParseQueryOptions(r))
}

// ListApproved is the approval-aware listing.
func (h *Handler) ListApproved(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)
	opts.Approved = true
	h.list(w, r, opts)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, opts utils.QueryOptions) {
	ctx := r.Context()
	q := ListQuery(opts)

	blogs, err := h.repo.Find(ctx, q)
	if err != nil {
		h.internalError(w, "list blogs", err)
		return
	}
	total, err := h.repo.Count(ctx, q.Filter)
	if err != nil {
		h.internalError(w, "count blogs", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, listResponse{Blogs: blogs, Total: total})
}

func (h *Handler) ByCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.find(w, r, CategoryQuery(ps.ByName("category")))
}

func (h *Handler) ByAuthor(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.find(w, r, AuthorQuery(ps.ByName("email"), false))
}

// Dashboard lists every post by the author regardless of status.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.find(w, r, AuthorQuery(ps.ByName("email"), true))
}

func (h *Handler) EditorsPicks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.find(w, r, EditorsPickQuery())
}

func (h *Handler) find(w http.ResponseWriter, r *http.Request, q Query) {
	blogs, err := h.repo.Find(r.Context(), q)
	if err != nil {
		h.internalError(w, "find blogs", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, blogs)
}

func (h *Handler) Random(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	blogs, err := h.repo.Aggregate(r.Context(), RandomPipeline())
	if err != nil {
		h.internalError(w, "sample blogs", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, blogs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseID(w, ps)
	if !ok {
		return
	}
	blog, err := h.repo.FindByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Blog not found")
		return
	}
	if err != nil {
		h.internalError(w, "get blog", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, blog)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.BlogInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	blog, err := models.NewBlog(in, h.now())
	if err != nil {
		h.badInput(w, err)
		return
	}

	id, err := h.repo.Insert(r.Context(), blog)
	if err != nil {
		h.internalError(w, "create blog", err)
		return
	}
	h.emit(r.Context(), mq.BlogCreated, id)
	utils.RespondWithJSON(w, http.StatusOK, models.InsertAck{Acknowledged: true, InsertedID: id})
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.update(w, r, ps, ApproveUpdate(h.now()), mq.BlogApproved)
}

func (h *Handler) Deny(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.update(w, r, ps, DenyUpdate(), mq.BlogDenied)
}

func (h *Handler) SetEditorsPick(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body models.EditorsPickUpdate
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := models.Validate(body); err != nil {
		h.badInput(w, err)
		return
	}
	h.update(w, r, ps, EditorsPickUpdate(*body.EditorsPick), mq.BlogEditorsPick)
}

// Edit serves PATCH/PUT /updateBlog/:id.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body models.BlogUpdate
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.Empty() {
		utils.RespondWithError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	if err := models.Validate(body); err != nil {
		h.badInput(w, err)
		return
	}
	h.update(w, r, ps, ContentUpdate(body), mq.BlogUpdated)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, ps httprouter.Params, update bson.M, event string) {
	id, ok := parseID(w, ps)
	if !ok {
		return
	}
	ack, err := h.repo.Update(r.Context(), id, update)
	if errors.Is(err, ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Blog not found")
		return
	}
	if err != nil {
		h.internalError(w, "update blog", err)
		return
	}
	h.emit(r.Context(), event, id)
	h.syncTitle(r.Context(), event, id)
	utils.RespondWithJSON(w, http.StatusOK, ack)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseID(w, ps)
	if !ok {
		return
	}
	n, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.internalError(w, "delete blog", err)
		return
	}
	if n > 0 {
		h.emit(r.Context(), mq.BlogDeleted, id)
		h.syncTitle(r.Context(), mq.BlogDeleted, id)
	}
	utils.RespondWithJSON(w, http.StatusOK, models.DeleteAck{Acknowledged: true, DeletedCount: n})
}

func parseID(w http.ResponseWriter, ps httprouter.Params) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid blog id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) emit(ctx context.Context, typ string, id primitive.ObjectID) {
	if err := h.events.Emit(ctx, mq.NewEvent(typ, "blog", id.Hex())); err != nil {
		h.logger.Warn("emit event failed", "type", typ, "blog_id", id.Hex(), "error", err)
	}
}

// syncTitle is best effort like emit: the write already succeeded.
func (h *Handler) syncTitle(ctx context.Context, event string, id primitive.ObjectID) {
	if h.titles == nil {
		return
	}
	var err error
	switch event {
	case mq.BlogDenied, mq.BlogDeleted:
		err = h.titles.Remove(ctx, id.Hex())
	case mq.BlogApproved, mq.BlogUpdated:
		var blog *models.Blog
		blog, err = h.repo.FindByID(ctx, id)
		if err == nil && blog.Approved {
			err = h.titles.Add(ctx, id.Hex(), blog.Title)
		}
	}
	if err != nil {
		h.logger.Warn("title index out of sync", "event", event, "blog_id", id.Hex(), "error", err)
	}
}

func (h *Handler) badInput(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		utils.RespondWithValidation(w, verr)
		return
	}
	utils.RespondWithError(w, http.StatusBadRequest, err.Error())
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op+" failed", "error", err)
	utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
}
