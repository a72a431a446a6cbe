package validator

import (
	"testing"

	playground "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindingSample struct {
	StartDate string  `validate:"omitempty,iso_date"`
	Phone     *string `validate:"omitempty,us_phone"`
	Benefit   string  `validate:"required,benefit_type"`
}

func TestRegister(t *testing.T) {
	v := playground.New()
	require.NoError(t, Register(v))

	phone := "(305) 555-1234"
	badPhone := "555-1234"

	tests := []struct {
		name  string
		input bindingSample
		valid bool
	}{
		{"All valid", bindingSample{StartDate: "2024-02-29", Phone: &phone, Benefit: "housing"}, true},
		{"Optional fields omitted", bindingSample{Benefit: "bus_card"}, true},
		{"Impossible date", bindingSample{StartDate: "2023-02-29", Benefit: "housing"}, false},
		{"US style date", bindingSample{StartDate: "02/01/2024", Benefit: "housing"}, false},
		{"Short phone", bindingSample{Phone: &badPhone, Benefit: "housing"}, false},
		{"Unknown benefit", bindingSample{Benefit: "parking"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.input)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRegisterBindings(t *testing.T) {
	assert.NoError(t, RegisterBindings())
}
