// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"carteira/internal/ledger"
)

var once sync.Once

// Register registers all custom validators with the Gin binding engine.
// Calling it more than once is harmless.
func Register() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			RegisterOn(v)
		}
	})
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("entry_status", validateEntryStatus)
	_ = v.RegisterValidation("repeat_option", validateRepeatOption)
	_ = v.RegisterValidation("entry_type", validateEntryType)
	_ = v.RegisterValidation("iso_date", validateISODate)
}

func validateEntryStatus(fl validator.FieldLevel) bool {
	switch ledger.Status(fl.Field().String()) {
	case ledger.StatusPendente, ledger.StatusPaga, ledger.StatusPago, ledger.StatusRecebido:
		return true
	}
	return false
}

func validateRepeatOption(fl validator.FieldLevel) bool {
	switch ledger.RepeatOption(fl.Field().String()) {
	case ledger.RepeatNever, ledger.RepeatAlways, ledger.RepeatInstallment:
		return true
	}
	return false
}

func validateEntryType(fl validator.FieldLevel) bool {
	switch ledger.EntryType(fl.Field().String()) {
	case ledger.TypeDespesa, ledger.TypeReceita:
		return true
	}
	return false
}

func validateISODate(fl validator.FieldLevel) bool {
	return ledger.ValidDate(fl.Field().String())
}
