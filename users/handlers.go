package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"quill/models"
	"quill/mq"
	"quill/utils"
)

type Handler struct {
	repo   Repository
	events mq.Emitter
	logger *slog.Logger
}

func NewHandler(repo Repository, events mq.Emitter, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, events: events, logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.repo.FindAll(r.Context())
	if err != nil {
		h.internalError(w, "list users", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

// Role serves GET /users/role/:email. An unknown address is a 200 with a
// null body, which the client reads as "no role".
func (h *Handler) Role(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.repo.FindByEmail(r.Context(), ps.ByName("email"))
	if err != nil {
		h.internalError(w, "find user", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.UserInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := models.NewUser(in)
	if err != nil {
		badInput(w, err)
		return
	}

	id, err := h.repo.Insert(r.Context(), user)
	if errors.Is(err, ErrExists) {
		utils.RespondWithError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		h.internalError(w, "create user", err)
		return
	}
	h.emit(r.Context(), mq.UserCreated, user.Email)
	utils.RespondWithJSON(w, http.StatusOK, models.InsertAck{Acknowledged: true, InsertedID: id})
}

// UpdateInfo serves PATCH /user/updateInfo/:email.
func (h *Handler) UpdateInfo(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body models.ProfileUpdate
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.Empty() {
		utils.RespondWithError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	if err := models.Validate(body); err != nil {
		badInput(w, err)
		return
	}
	h.update(w, r, ps.ByName("email"), ProfileUpdate(body))
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body models.RoleUpdate
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	body.Role = strings.TrimSpace(body.Role)
	if err := models.Validate(body); err != nil {
		badInput(w, err)
		return
	}
	h.update(w, r, ps.ByName("email"), RoleUpdate(body.Role))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, email string, update bson.M) {
	ack, err := h.repo.Update(r.Context(), email, update)
	if errors.Is(err, ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.internalError(w, "update user", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ack)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := ps.ByName("email")
	n, err := h.repo.Delete(r.Context(), email)
	if err != nil {
		h.internalError(w, "delete user", err)
		return
	}
	if n > 0 {
		h.emit(r.Context(), mq.UserDeleted, email)
	}
	utils.RespondWithJSON(w, http.StatusOK, models.DeleteAck{Acknowledged: true, DeletedCount: n})
}

func (h *Handler) emit(ctx context.Context, typ, email string) {
	if err := h.events.Emit(ctx, mq.NewEvent(typ, "user", email)); err != nil {
		h.logger.Warn("emit event failed", "type", typ, "email", email, "error", err)
	}
}

func badInput(w http.ResponseWriter, err error) {
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
