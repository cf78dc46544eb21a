package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type form struct {
	Status string `validate:"omitempty,entry_status"`
	Repeat string `validate:"omitempty,repeat_option"`
	Type   string `validate:"omitempty,entry_type"`
	Date   string `validate:"omitempty,iso_date"`
}

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	RegisterOn(v)

	tests := []struct {
		name  string
		form  form
		valid bool
	}{
		{"empty", form{}, true},
		{"all valid", form{Status: "PAGA", Repeat: "Não repetir", Type: "DESPESA", Date: "2024-02-29"}, true},
		{"received", form{Status: "RECEBIDO", Type: "RECEITA"}, true},
		{"installment", form{Repeat: "Parcelado"}, true},
		{"lowercase status", form{Status: "paga"}, false},
		{"unknown repeat", form{Repeat: "Mensal"}, false},
		{"unknown type", form{Type: "TRANSFERENCIA"}, false},
		{"bad date", form{Date: "2023-02-29"}, false},
		{"br date", form{Date: "05/03/2024"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.form)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestRegister_Idempotent(t *testing.T) {
	Register()
	Register()
}
