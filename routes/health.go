package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"quill/utils"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function, e.g. a redis client's Ping, to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthDeps lists what /health probes. Store is required; a failing Redis
// only degrades the service since events are best effort.
type HealthDeps struct {
	Store Pinger
	Redis Pinger
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func Health(deps HealthDeps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		status := "healthy"

		if err := deps.Store.Ping(ctx); err != nil {
			checks["mongo"] = "unhealthy"
			status = "unhealthy"
		} else {
			checks["mongo"] = "ok"
		}

		if deps.Redis != nil {
			if err := deps.Redis.Ping(ctx); err != nil {
				checks["redis"] = "unhealthy"
				if status == "healthy" {
					status = "degraded"
				}
			} else {
				checks["redis"] = "ok"
			}
		} else {
			checks["redis"] = "skipped"
		}

		code := http.StatusOK
		if status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		utils.RespondWithJSON(w, code, healthResponse{Status: status, Checks: checks})
	}
}

// Index answers the root path so load balancers have something to poke.
func Index(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "working nicely")
}
