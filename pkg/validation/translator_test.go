package validation_test

import (
	"encoding/json"
	"errors"
	"testing"

	"job-management-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFieldError only answers the methods the translator uses.
type fakeFieldError struct {
	validator.FieldError
	field string
	tag   string
}

func (f fakeFieldError) Field() string { return f.field }
func (f fakeFieldError) Tag() string   { return f.tag }
func (f fakeFieldError) Namespace() string {
	return "fake." + f.field
}
func (f fakeFieldError) Param() string { return "" }

type mapSource map[string]string

func (m mapSource) Resolve(fe validator.FieldError, locale string) (string, error) {
	msg, ok := m[locale+"/"+fe.Field()+"/"+fe.Tag()]
	if !ok {
		return "", validation.ErrMessageNotFound
	}
	return msg, nil
}

func TestTranslate(t *testing.T) {
	source := mapSource{
		"pt_BR/name/whitespace_only": "nome invalido",
		"pt_BR/email/email":          "email invalido",
		"pt_BR/email/max":            "email longo",
		"en/email/email":             "bad email",
	}
	translator := validation.NewTranslator(source)

	t.Run("keeps validator order", func(t *testing.T) {
		out, err := translator.Translate(validator.ValidationErrors{
			fakeFieldError{field: "email", tag: "email"},
			fakeFieldError{field: "name", tag: "whitespace_only"},
		}, "pt_BR")

		require.NoError(t, err)
		assert.Equal(t, []validation.FieldMessage{
			{Field: "email", Message: "email invalido"},
			{Field: "name", Message: "nome invalido"},
		}, out)
	})

	t.Run("keeps repeated fields", func(t *testing.T) {
		out, err := translator.Translate(validator.ValidationErrors{
			fakeFieldError{field: "email", tag: "email"},
			fakeFieldError{field: "email", tag: "max"},
		}, "pt_BR")

		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "email", out[0].Field)
		assert.Equal(t, "email", out[1].Field)
		assert.Equal(t, "email longo", out[1].Message)
	})

	t.Run("uses the requested locale", func(t *testing.T) {
		out, err := translator.Translate(validator.ValidationErrors{
			fakeFieldError{field: "email", tag: "email"},
		}, "en")

		require.NoError(t, err)
		assert.Equal(t, "bad email", out[0].Message)
	})

	t.Run("empty input gives an empty array", func(t *testing.T) {
		out, err := translator.Translate(nil, "pt_BR")

		require.NoError(t, err)
		require.NotNil(t, out)
		body, err := json.Marshal(out)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(body))
	})

	t.Run("unresolvable message aborts", func(t *testing.T) {
		out, err := translator.Translate(validator.ValidationErrors{
			fakeFieldError{field: "email", tag: "email"},
			fakeFieldError{field: "name", tag: "required"},
		}, "pt_BR")

		assert.Nil(t, out)
		assert.True(t, errors.Is(err, validation.ErrMessageNotFound))
	})
}

func TestFieldMessageJSON(t *testing.T) {
	body, err := json.Marshal(validation.FieldMessage{Field: "name", Message: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"field":"name","message":"x"}`, string(body))
}
