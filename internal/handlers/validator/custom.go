package validator

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hiredeck/hiredeck/internal/store/model"
)

var employmentTypes = map[string]struct{}{
	"full-time":  {},
	"part-time":  {},
	"contract":   {},
	"internship": {},
}

func outcomeValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return val == model.RoundStatusQualified || val == model.RoundStatusNotQualified
}

func employmentTypeValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if val == "" {
		return true
	}
	_, found := employmentTypes[strings.ToLower(val)]
	return found
}

func resumeURLValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if val == "" {
		return true
	}

	u, err := url.Parse(val)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
