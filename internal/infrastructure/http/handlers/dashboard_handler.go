package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/commission"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
	appmw "github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/http/views"
)

// DashboardHandler serves the landing page and the end-user tracker.
type DashboardHandler struct {
	list       *commission.ListCommissions
	admins     domain.AdminSet
	contactURL string
	log        zerolog.Logger
}

// NewDashboardHandler creates the handler. contactUserID, when set, renders
// a "Request a Commission" link to that Discord profile.
func NewDashboardHandler(list *commission.ListCommissions, admins domain.AdminSet, contactUserID string, log zerolog.Logger) *DashboardHandler {
	h := &DashboardHandler{list: list, admins: admins, log: log}
	if contactUserID != "" {
		h.contactURL = "https://discord.com/users/" + contactUserID
	}
	return h
}

// Home handles GET /.
func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	if err := views.Render(w, http.StatusOK, "home.html", views.HomeView{}); err != nil {
		h.log.Error().Err(err).Msg("render home page")
	}
}

// Tracker handles GET /order-tracker: a login prompt for anonymous callers,
// otherwise the caller's commissions with visible updates only.
func (h *DashboardHandler) Tracker(w http.ResponseWriter, r *http.Request) {
	identity := appmw.IdentityFromContext(r.Context())
	view := views.TrackerView{ContactURL: h.contactURL}
	if identity != nil {
		list, err := h.list.ForOwner(r.Context(), identity.ID)
		if err != nil {
			h.log.Error().Err(err).Str("user_id", identity.ID).Msg("list own commissions failed")
			writeErr(w, http.StatusInternalServerError, "", "Internal server error")
			return
		}
		view.SignedIn = true
		view.DisplayName = identity.DisplayName()
		view.IsAdmin = h.admins.IsAdmin(identity)
		view.Commissions = list
	}
	if err := views.Render(w, http.StatusOK, "tracker.html", view); err != nil {
		h.log.Error().Err(err).Msg("render tracker page")
	}
}
