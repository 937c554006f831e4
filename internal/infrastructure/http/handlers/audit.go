package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	appmw "github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/http/middleware"
)

// AuditLog logs one admin or session event.
func AuditLog(log zerolog.Logger, r *http.Request, e ports.AuditEvent) {
	ev := log.Info()
	if !e.Success {
		ev = log.Warn()
	}
	ev.
		Str("event", e.Event).
		Str("actor_id", e.ActorID).
		Str("ip", e.IP).
		Str("request_id", middleware.GetReqID(r.Context())).
		Bool("success", e.Success)
	if e.CommissionID != "" {
		ev.Str("commission_id", e.CommissionID)
	}
	if e.UpdateID != "" {
		ev.Str("update_id", e.UpdateID)
	}
	if e.Err != "" {
		ev.Str("error", e.Err)
	}
	ev.Msg("audit")
}

// AuditEmit fills actor and IP from the request, logs the event and, if
// enqueuer is non-nil, queues it for webhook delivery.
func AuditEmit(log zerolog.Logger, r *http.Request, enqueuer ports.TaskEnqueuer, e ports.AuditEvent) {
	if e.ActorID == "" {
		if id := appmw.IdentityFromContext(r.Context()); id != nil {
			e.ActorID = id.ID
		}
	}
	e.IP = getClientIP(r)
	AuditLog(log, r, e)
	if enqueuer != nil {
		// best-effort; the action already happened
		_ = enqueuer.EnqueueWebhook(r.Context(), e)
	}
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	return r.RemoteAddr
}
