// Package views renders the HTML pages and serves the embedded stylesheet.
package views

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/commission"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*.css
var staticFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"statusLabel": func(s domain.Status) string { return s.Label() },
	"formatTime":  func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04 UTC") },
	"year":        func() int { return time.Now().Year() },
}).ParseFS(templatesFS, "templates/*.html"))

// Static returns the stylesheet file system rooted at static/.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// HomeView is the landing page.
type HomeView struct{}

// TrackerView is the end-user dashboard. Commissions only carry visible
// updates.
type TrackerView struct {
	SignedIn    bool
	DisplayName string
	IsAdmin     bool
	ContactURL  string
	Commissions []commission.OwnerCommission
}

// AdminView is the full listing with controls.
type AdminView struct {
	DisplayName string
	Commissions []*domain.Commission
	Statuses    []domain.Status
	Notice      string
}

// Render executes the named template into a buffer first so a template
// error never leaves a half-written page.
func Render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
