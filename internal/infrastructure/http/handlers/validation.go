package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/amirhosseinghanipour/ordertracker/internal/domain"
	domerrors "github.com/amirhosseinghanipour/ordertracker/internal/domain/errors"
)

type addCommissionForm struct {
	UserID      string `validate:"required,max=64"`
	Description string `validate:"required,max=2000"`
	Status      string `validate:"max=32"`
}

type editCommissionForm struct {
	ID          string `validate:"required,max=64"`
	Description string `validate:"required,max=2000"`
	Status      string `validate:"max=32"`
}

type deleteCommissionForm struct {
	ID string `validate:"required,max=64"`
}

type addUpdateForm struct {
	CommissionID    string `validate:"required,max=64"`
	Text            string `validate:"required,max=5000"`
	ProgressPercent string `validate:"max=32"`
	Visible         string
}

type updateRefForm struct {
	CommissionID string `validate:"required,max=64"`
	UpdateID     string `validate:"required_without=UpdateIndex,omitempty,uuid"`
	UpdateIndex  string `validate:"required_without=UpdateID,omitempty,numeric"`
}

// formValue returns the trimmed value of a parsed form field.
func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// checkForm runs struct validation and reports failures as ErrValidation.
func checkForm(v *validator.Validate, form interface{}) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domerrors.Validation(strings.ToLower(fe.Field()) + " failed " + fe.Tag())
	}
	return domerrors.Validation(err.Error())
}

// ref builds the update reference; a stable id wins over the index.
func (f updateRefForm) ref() (domain.UpdateRef, error) {
	if f.UpdateID != "" {
		return domain.UpdateRef{ID: f.UpdateID}, nil
	}
	i, err := strconv.Atoi(f.UpdateIndex)
	if err != nil {
		return domain.UpdateRef{}, domerrors.Validation("updateIndex must be an integer")
	}
	return domain.RefByIndex(i), nil
}

func parseUpdateRefForm(v *validator.Validate, r *http.Request) (string, domain.UpdateRef, error) {
	form := updateRefForm{
		CommissionID: formValue(r, "commissionId"),
		UpdateID:     formValue(r, "updateId"),
		UpdateIndex:  formValue(r, "updateIndex"),
	}
	if err := checkForm(v, &form); err != nil {
		return "", domain.UpdateRef{}, err
	}
	ref, err := form.ref()
	return form.CommissionID, ref, err
}
