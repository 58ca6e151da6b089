package validation

import (
	"fmt"
	"strings"

	errors "github.com/frahmantamala/hiring-gateway/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	required   bool
	Validators []ValidatorFunc
}

// ValidationBuilder checks request fields. Missing required fields are reported
// together as one 400 listing every required name; other rule failures return
// the first failing rule's error.
type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{FieldName: name, Value: value}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.required = true
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if s, ok := value.(string); ok && len([]rune(s)) > max {
			return errors.NewValidationError(fmt.Sprintf("%s 不能超过 %d 个字符", fv.FieldName, max), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

// OneOf accepts empty values; pair it with Required when the field is mandatory.
func (fv *FieldValidator) OneOf(code errors.ErrorCode, allowed ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return errors.NewValidationError(
			fmt.Sprintf("%s 必须是以下之一: %s", fv.FieldName, strings.Join(allowed, ", ")), code).
			WithDetails(map[string]interface{}{"field": fv.FieldName, "allowed": allowed})
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	var required, missing []string
	for _, field := range v.fields {
		if !field.required {
			continue
		}
		required = append(required, field.FieldName)
		if isEmpty(field.Value) {
			missing = append(missing, field.FieldName)
		}
	}
	if len(missing) > 0 {
		return errors.NewMissingFieldsError(required, missing)
	}

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			if err := validator(field.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case *string:
		return v == nil || strings.TrimSpace(*v) == ""
	case []byte:
		return len(v) == 0
	case bool:
		return false
	case int:
		return v == 0
	case int64:
		return v == 0
	default:
		return false
	}
}
