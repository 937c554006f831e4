package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/commission"
	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
	appmw "github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/http/views"
)

// AdminUseCases groups the use cases behind /order-tracker/admin.
type AdminUseCases struct {
	List             *commission.ListCommissions
	CreateCommission *commission.CreateCommission
	EditCommission   *commission.EditCommission
	DeleteCommission *commission.DeleteCommission
	AddUpdate        *commission.AddUpdate
	ToggleUpdate     *commission.ToggleUpdate
	DeleteUpdate     *commission.DeleteUpdate
}

// AdminHandler handles /order-tracker/admin/*. Routes are gated by
// middleware.RequireAdmin.
type AdminHandler struct {
	uc             AdminUseCases
	enqueuer       ports.TaskEnqueuer
	maxUploadBytes int64
	validate       *validator.Validate
	log            zerolog.Logger
}

// NewAdminHandler creates the admin handler. maxUploadBytes bounds the
// multipart body of the add-update form.
func NewAdminHandler(uc AdminUseCases, enqueuer ports.TaskEnqueuer, maxUploadBytes int64, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		uc:             uc,
		enqueuer:       enqueuer,
		maxUploadBytes: maxUploadBytes,
		validate:       validator.New(),
		log:            log,
	}
}

// Panel handles GET /order-tracker/admin.
func (h *AdminHandler) Panel(w http.ResponseWriter, r *http.Request) {
	list, err := h.uc.List.All(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list commissions failed")
		writeErr(w, http.StatusInternalServerError, "", "Internal server error")
		return
	}
	view := views.AdminView{Commissions: list, Statuses: domain.Statuses}
	if id := appmw.IdentityFromContext(r.Context()); id != nil {
		view.DisplayName = id.DisplayName()
	}
	if r.URL.Query().Get("image") == "ignored" {
		view.Notice = "The uploaded image type is not allowed; the update was saved without it."
	}
	if err := views.Render(w, http.StatusOK, "admin.html", view); err != nil {
		h.log.Error().Err(err).Msg("render admin page")
	}
}

// AddCommission handles POST /order-tracker/admin/add.
func (h *AdminHandler) AddCommission(w http.ResponseWriter, r *http.Request) {
	form := addCommissionForm{
		UserID:      formValue(r, "userId"),
		Description: formValue(r, "description"),
		Status:      formValue(r, "status"),
	}
	if err := checkForm(h.validate, &form); err != nil {
		h.fail(w, r, ports.AuditEvent{Event: ports.EventCommissionCreated, OwnerID: form.UserID}, err)
		return
	}
	c, err := h.uc.CreateCommission.Execute(r.Context(), commission.CreateCommissionInput{
		OwnerID:     form.UserID,
		Description: form.Description,
		Status:      form.Status,
	})
	if err != nil {
		h.fail(w, r, ports.AuditEvent{Event: ports.EventCommissionCreated, OwnerID: form.UserID}, err)
		return
	}
	h.succeed(w, r, ports.AuditEvent{Event: ports.EventCommissionCreated, OwnerID: c.OwnerID, CommissionID: c.ID.String()})
}

// EditCommission handles POST /order-tracker/admin/edit.
func (h *AdminHandler) EditCommission(w http.ResponseWriter, r *http.Request) {
	form := editCommissionForm{
		ID:          formValue(r, "id"),
		Description: formValue(r, "description"),
		Status:      formValue(r, "status"),
	}
	event := ports.AuditEvent{Event: ports.EventCommissionEdited, CommissionID: form.ID}
	if err := checkForm(h.validate, &form); err != nil {
		h.fail(w, r, event, err)
		return
	}
	c, err := h.uc.EditCommission.Execute(r.Context(), commission.EditCommissionInput{
		ID:          form.ID,
		Description: form.Description,
		Status:      form.Status,
	})
	if err != nil {
		h.fail(w, r, event, err)
		return
	}
	event.OwnerID = c.OwnerID
	h.succeed(w, r, event)
}

// DeleteCommission handles POST /order-tracker/admin/delete. Deleting an
// unknown id still redirects.
func (h *AdminHandler) DeleteCommission(w http.ResponseWriter, r *http.Request) {
	form := deleteCommissionForm{ID: formValue(r, "id")}
	event := ports.AuditEvent{Event: ports.EventCommissionDeleted, CommissionID: form.ID}
	if err := checkForm(h.validate, &form); err != nil {
		h.fail(w, r, event, err)
		return
	}
	res, err := h.uc.DeleteCommission.Execute(r.Context(), form.ID)
	if err != nil {
		h.fail(w, r, event, err)
		return
	}
	if !res.Deleted {
		h.log.Info().Str("commission_id", form.ID).Msg("delete of absent commission")
	}
	event.OwnerID = res.OwnerID
	h.succeed(w, r, event)
}

// AddUpdate handles POST /order-tracker/admin/update/add (multipart).
func (h *AdminHandler) AddUpdate(w http.ResponseWriter, r *http.Request) {
	event := ports.AuditEvent{Event: ports.EventUpdateAdded}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.log.Warn().Err(err).Msg("parse add-update form")
		writeErr(w, http.StatusBadRequest, "", "Invalid form body")
		return
	}
	form := addUpdateForm{
		CommissionID:    formValue(r, "commissionId"),
		Text:            formValue(r, "text"),
		ProgressPercent: formValue(r, "progressPercent"),
		Visible:         formValue(r, "visible"),
	}
	event.CommissionID = form.CommissionID
	if err := checkForm(h.validate, &form); err != nil {
		h.fail(w, r, event, err)
		return
	}
	input := commission.AddUpdateInput{
		CommissionID:    form.CommissionID,
		Text:            form.Text,
		ProgressPercent: domain.ParsePercent(form.ProgressPercent),
		Visible:         domain.ParseCheckbox(form.Visible),
	}
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		input.Image = &ports.ImageUpload{Filename: header.Filename, Body: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		h.fail(w, r, event, err)
		return
	}

	res, err := h.uc.AddUpdate.Execute(r.Context(), input)
	if err != nil {
		h.fail(w, r, event, err)
		return
	}
	event.OwnerID = res.OwnerID
	event.UpdateID = res.Update.ID.String()
	if res.ImageRejected {
		h.log.Warn().Str("commission_id", form.CommissionID).Str("filename", input.Image.Filename).Msg("image rejected; update stored without it")
		h.audit(r, event, true)
		http.Redirect(w, r, AdminPath+"?image=ignored", http.StatusSeeOther)
		return
	}
	h.succeed(w, r, event)
}

// ToggleVisibility handles POST /order-tracker/admin/update/toggle-visibility.
func (h *AdminHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, commission.ToggleVisible)
}

// TogglePercent handles POST /order-tracker/admin/update/toggle-percent.
func (h *AdminHandler) TogglePercent(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, commission.TogglePercent)
}

func (h *AdminHandler) toggle(w http.ResponseWriter, r *http.Request, field commission.ToggleField) {
	event := ports.AuditEvent{Event: ports.EventUpdateToggled}
	commissionID, ref, err := parseUpdateRefForm(h.validate, r)
	event.CommissionID = commissionID
	if err != nil {
		h.fail(w, r, event, err)
		return
	}
	u, err := h.uc.ToggleUpdate.Execute(r.Context(), commission.ToggleUpdateInput{CommissionID: commissionID, Ref: ref, Field: field})
	if err != nil {
		h.fail(w, r, event, err)
		return
	}
	event.UpdateID = u.ID.String()
	h.succeed(w, r, event)
}

// DeleteUpdate handles POST /order-tracker/admin/update/delete.
func (h *AdminHandler) DeleteUpdate(w http.ResponseWriter, r *http.Request) {
	event := ports.AuditEvent{Event: ports.EventUpdateDeleted}
	commissionID, ref, err := parseUpdateRefForm(h.validate, r)
	event.CommissionID = commissionID
	if err != nil {
		h.fail(w, r, event, err)
		return
	}
	u, err := h.uc.DeleteUpdate.Execute(r.Context(), commission.DeleteUpdateInput{CommissionID: commissionID, Ref: ref})
	if err != nil {
		h.fail(w, r, event, err)
		return
	}
	event.UpdateID = u.ID.String()
	h.succeed(w, r, event)
}

func (h *AdminHandler) succeed(w http.ResponseWriter, r *http.Request, event ports.AuditEvent) {
	h.audit(r, event, true)
	redirectAdmin(w, r)
}

func (h *AdminHandler) fail(w http.ResponseWriter, r *http.Request, event ports.AuditEvent, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("event", event.Event).Msg("admin mutation failed")
	}
	event.Err = err.Error()
	h.audit(r, event, false)
	writeErr(w, status, "", msg)
}

func (h *AdminHandler) audit(r *http.Request, event ports.AuditEvent, success bool) {
	event.Success = success
	appmw.RecordMutation(event.Event, success)
	AuditEmit(h.log, r, h.enqueuer, event)
}
