package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"quill/middleware"
	"quill/utils"
)

var ErrNoSecret = errors.New("JWT_SECRET is not configured")

// Issuer signs short-lived HS256 tokens carrying the caller's email.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

func NewIssuer(secret string, ttl time.Duration, logger *slog.Logger) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now, logger: logger}
}

func (i *Issuer) Sign(email string) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrNoSecret
	}
	now := i.now()
	claims := &middleware.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

type tokenRequest struct {
	Email string `json:"email"`
}

// IssueToken serves POST /jwt.
func (i *Issuer) IssueToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body tokenRequest
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.TrimSpace(body.Email)
	if email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "email is required")
		return
	}

	token, err := i.Sign(email)
	if err != nil {
		i.logger.Error("sign token failed", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}
