package types

import (
	"regexp"
	"sync"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/db"
	"github.com/go-playground/validator/v10"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

var (
	sharedOnce      sync.Once
	sharedValidator *validator.Validate
)

// NewValidator returns a validator with the API's custom tags registered:
// app_status accepts the tracker's application statuses and clock accepts
// HH:MM or HH:MM:SS.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("app_status", func(fl validator.FieldLevel) bool {
		return db.IsValidStatus(fl.Field().String())
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks v against its struct tags with a shared validator.
func Validate(v any) error {
	sharedOnce.Do(func() { sharedValidator = NewValidator() })
	return sharedValidator.Struct(v)
}
