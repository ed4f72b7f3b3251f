package validator

import "github.com/go-playground/validator/v10"

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewApplicationValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("resume_url", resumeURLValidator),
		},
	}
}

func NewEvaluationValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("round_outcome", outcomeValidator),
		},
	}
}

func NewJobPostValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("employment_type", employmentTypeValidator),
		},
	}
}
