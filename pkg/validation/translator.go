package validation

import (
	"github.com/go-playground/validator/v10"
)

// MessageSource resolves the display text of one field violation.
type MessageSource interface {
	Resolve(fe validator.FieldError, locale string) (string, error)
}

// FieldMessage is one entry of a validation error response.
type FieldMessage struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Translator turns a validation failure into the client-facing list.
type Translator struct {
	source MessageSource
}

func NewTranslator(source MessageSource) *Translator {
	return &Translator{source: source}
}

// Translate emits one entry per violation in the order the validator
// reported them. Repeated fields are kept. A message that cannot be
// resolved aborts the whole translation.
func (t *Translator) Translate(errs validator.ValidationErrors, locale string) ([]FieldMessage, error) {
	out := make([]FieldMessage, 0, len(errs))
	for _, fe := range errs {
		msg, err := t.source.Resolve(fe, locale)
		if err != nil {
			return nil, err
		}
		out = append(out, FieldMessage{Field: fe.Field(), Message: msg})
	}
	return out, nil
}
