package validator

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
)

// Custom binding tags
const (
	TagISODate     = "iso_date"
	TagUSPhone     = "us_phone"
	TagBenefitType = "benefit_type"
)

var benefitTypes = map[string]bool{
	"housing":          true,
	"transportation":   true,
	"flight_agreement": true,
	"bus_card":         true,
}

// RegisterBindings adds the custom tags to gin's request validator
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*playground.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

// Register adds the custom tags to v
func Register(v *playground.Validate) error {
	validations := map[string]playground.Func{
		TagISODate:     isISODate,
		TagUSPhone:     isUSPhone,
		TagBenefitType: isBenefitType,
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}

func isISODate(fl playground.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

var phones = NewPhoneValidator()

func isUSPhone(fl playground.FieldLevel) bool {
	return phones.IsValid(fl.Field().String())
}

func isBenefitType(fl playground.FieldLevel) bool {
	return benefitTypes[fl.Field().String()]
}
