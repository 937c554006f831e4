package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/discord"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/auth"
	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	appmw "github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/http/middleware"
)

const (
	providerName = "discord"
	trackerPath  = "/order-tracker"
)

// InitOAuthProviders registers the Discord provider (scope identify) and the
// store gothic keeps its state cookie in. Call once at startup.
func InitOAuthProviders(clientID, clientSecret, redirectURI string, store sessions.Store) {
	goth.UseProviders(discord.New(clientID, clientSecret, redirectURI, discord.ScopeIdentify))
	gothic.Store = store
}

// OAuthHandler runs the Discord authorization-code flow and binds the
// resulting identity to the session.
type OAuthHandler struct {
	signIn   *auth.SignIn
	session  ports.IdentitySession
	enqueuer ports.TaskEnqueuer
	log      zerolog.Logger
}

func NewOAuthHandler(signIn *auth.SignIn, session ports.IdentitySession, enqueuer ports.TaskEnqueuer, log zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{signIn: signIn, session: session, enqueuer: enqueuer, log: log}
}

// Login handles GET /order-tracker/login by redirecting to Discord.
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	authURL, err := gothic.GetAuthURL(w, withProvider(r))
	if err != nil {
		h.log.Error().Err(err).Msg("build oauth url")
		writeErr(w, http.StatusInternalServerError, ErrCodeOAuth, "OAuth error")
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback handles GET /order-tracker/callback.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("code") == "" {
		appmw.RecordLoginAttempt(false)
		writeErr(w, http.StatusBadRequest, "", "No code provided")
		return
	}
	gothUser, err := gothic.CompleteUserAuth(w, withProvider(r))
	if err != nil {
		h.loginFailed(w, r, err)
		return
	}
	res, err := h.signIn.Execute(r.Context(), auth.OAuthUser{
		Provider:       gothUser.Provider,
		ProviderUserID: gothUser.UserID,
		Username:       username(gothUser),
		Discriminator:  discriminator(gothUser),
	})
	if err != nil {
		h.loginFailed(w, r, err)
		return
	}
	if err := h.session.Establish(w, r, res.Identity); err != nil {
		h.loginFailed(w, r, err)
		return
	}
	_ = gothic.Logout(w, r)
	appmw.RecordLoginAttempt(true)
	AuditEmit(h.log, r, h.enqueuer, ports.AuditEvent{Event: ports.EventLogin, ActorID: res.Identity.ID, Success: true})
	http.Redirect(w, r, trackerPath, http.StatusSeeOther)
}

// Logout handles POST /order-tracker/logout.
func (h *OAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	event := ports.AuditEvent{Event: ports.EventLogout, Success: true}
	if err := h.session.Destroy(w, r); err != nil {
		h.log.Warn().Err(err).Msg("destroy session")
		event.Success = false
		event.Err = err.Error()
	}
	AuditEmit(h.log, r, h.enqueuer, event)
	http.Redirect(w, r, trackerPath, http.StatusSeeOther)
}

func (h *OAuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, err error) {
	appmw.RecordLoginAttempt(false)
	h.log.Error().Err(err).Msg("oauth callback failed")
	AuditLog(h.log, r, ports.AuditEvent{Event: ports.EventLogin, IP: getClientIP(r), Err: err.Error()})
	writeErr(w, http.StatusInternalServerError, ErrCodeOAuth, "OAuth error")
}

// withProvider sets the provider query parameter gothic reads.
func withProvider(r *http.Request) *http.Request {
	r2 := r.Clone(r.Context())
	q := r2.URL.Query()
	q.Set("provider", providerName)
	r2.URL.RawQuery = q.Encode()
	return r2
}

func username(u goth.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.NickName
}

func discriminator(u goth.User) string {
	d, _ := u.RawData["discriminator"].(string)
	return d
}
