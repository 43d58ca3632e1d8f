package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/martijn/clientreg/internal/core/domain"
)

type Strictness string

const (
	StrictnessBasic  Strictness = "basic"
	StrictnessStrict Strictness = "strict"
)

// StateCodes are the 27 Brazilian federative units accepted in strict mode.
var StateCodes = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO",
	"MA", "MT", "MS", "MG", "PA", "PB", "PR", "PE", "PI",
	"RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

// Options controls how strict the rule checks are.
type Options struct {
	Strictness Strictness
	// NameMinLength is counted in runes after trimming. Zero picks the
	// strictness default.
	NameMinLength int
}

func (o Options) nameMinLength() int {
	if o.NameMinLength > 0 {
		return o.NameMinLength
	}
	if o.Strictness == StrictnessStrict {
		return 3
	}
	return 1
}

// FieldError describes one rejected field.
type FieldError struct {
	Field  string
	Reason string
}

// Rejection lists every invalid field of a payload, in canonical field order.
type Rejection struct {
	Errors []FieldError
}

func (r *Rejection) Error() string {
	parts := make([]string, len(r.Errors))
	for i, fe := range r.Errors {
		parts[i] = fmt.Sprintf("%s %s", fe.Field, fe.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Details maps each rejected field to its reason.
func (r *Rejection) Details() map[string]string {
	details := make(map[string]string, len(r.Errors))
	for _, fe := range r.Errors {
		details[fe.Field] = fe.Reason
	}
	return details
}

func (r *Rejection) add(field, reason string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Reason: reason})
}

// Validator turns loosely typed request bodies into canonical client fields.
// It is safe for concurrent use and performs no I/O.
type Validator struct {
	validate  *validator.Validate
	nameRule  string
	ageRule   string
	stateRule string
	nameMin   int
}

func New(opts Options) *Validator {
	v := validator.New()

	validStates := make(map[string]bool, len(StateCodes))
	for _, code := range StateCodes {
		validStates[code] = true
	}
	_ = v.RegisterValidation("uf", func(fl validator.FieldLevel) bool {
		return validStates[fl.Field().String()]
	})

	nameMin := opts.nameMinLength()
	stateRule := "len=2,alpha"
	if opts.Strictness == StrictnessStrict {
		stateRule += ",uf"
	}

	return &Validator{
		validate:  v,
		nameRule:  fmt.Sprintf("required,min=%d", nameMin),
		ageRule:   "gt=0",
		stateRule: stateRule,
		nameMin:   nameMin,
	}
}

// Normalize resolves field aliases, coerces types and checks every rule. All
// violations are collected; the rejection is nil exactly when the returned
// fields are valid.
func (v *Validator) Normalize(raw map[string]any) (domain.ClientFields, *Rejection) {
	var (
		fields domain.ClientFields
		rej    Rejection
	)

	if raw == nil {
		raw = map[string]any{}
	}

	if value, ok := resolve(raw, FieldName); !ok {
		rej.add(FieldName, "is required")
	} else if name, err := coerceString(value); err != nil {
		rej.add(FieldName, err.Error())
	} else if reason := v.check(name, v.nameRule); reason != "" {
		rej.add(FieldName, reason)
	} else {
		fields.Name = name
	}

	if value, ok := resolve(raw, FieldAge); !ok {
		rej.add(FieldAge, "is required")
	} else if age, err := coerceInt(value); err != nil {
		rej.add(FieldAge, err.Error())
	} else if reason := v.check(age, v.ageRule); reason != "" {
		rej.add(FieldAge, reason)
	} else {
		fields.Age = age
	}

	if value, ok := resolve(raw, FieldStateCode); !ok {
		rej.add(FieldStateCode, "is required")
	} else if code, err := coerceString(value); err != nil {
		rej.add(FieldStateCode, err.Error())
	} else {
		code = strings.ToUpper(code)
		if reason := v.check(code, v.stateRule); reason != "" {
			rej.add(FieldStateCode, reason)
		} else {
			fields.StateCode = code
		}
	}

	if len(rej.Errors) > 0 {
		return domain.ClientFields{}, &rej
	}
	return fields, nil
}

// check runs a validator tag list against value and returns a readable reason
// for the first failing tag, or "" when the value passes.
func (v *Validator) check(value any, rule string) string {
	err := v.validate.Var(value, rule)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "is invalid"
	}

	switch fe := verrs[0]; fe.Tag() {
	case "required":
		return "must not be empty"
	case "min":
		return fmt.Sprintf("must be at least %d characters", v.nameMin)
	case "gt":
		return "must be greater than zero"
	case "len", "alpha":
		return "must be exactly two letters"
	case "uf":
		return "is not a valid state code"
	default:
		return "is invalid"
	}
}
