package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate = newValidator()
	hhmm     = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmm.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("ddmmyyyy", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("02/01/2006", fl.Field().String())
		return err == nil
	})
	return v
}

func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	// Format validation errors
	var errs []string
	for _, err := range verrs {
		field := strings.ToLower(err.Field())
		tag := err.Tag()
		param := err.Param()

		switch tag {
		case "required":
			errs = append(errs, field+" is required")
		case "min":
			errs = append(errs, field+" must be at least "+param)
		case "max":
			errs = append(errs, field+" must be at most "+param)
		case "email":
			errs = append(errs, field+" must be a valid email")
		case "oneof":
			errs = append(errs, field+" must be one of "+param)
		case "hhmm":
			errs = append(errs, field+" must be a time in HH:MM format")
		case "ddmmyyyy":
			errs = append(errs, field+" must be a date in DD/MM/YYYY format")
		case "latitude", "longitude":
			errs = append(errs, field+" must be a valid coordinate")
		default:
			errs = append(errs, field+" is invalid")
		}
	}

	return errors.New(strings.Join(errs, ", "))
}
