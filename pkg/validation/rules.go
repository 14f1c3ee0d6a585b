package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rule binds one validator tag on one struct field to the message key used
// when that tag fails.
type Rule struct {
	StructField string
	Field       string
	Tag         string
	MessageKey  string
}

// RuleSet is the rule table for one request type. Type is a zero value of
// the struct the rules apply to.
type RuleSet struct {
	Type  any
	Rules []Rule
}

func (s RuleSet) typeName() string {
	t := reflect.TypeOf(s.Type)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// tagRules renders the table in the shape RegisterStructValidationMapRules
// takes. Every field is optional: a nil pointer skips its rules.
func (s RuleSet) tagRules() map[string]string {
	out := make(map[string]string, len(s.Rules))
	for _, r := range s.Rules {
		if tags, ok := out[r.StructField]; ok {
			out[r.StructField] = tags + "," + r.Tag
			continue
		}
		out[r.StructField] = "omitempty," + r.Tag
	}
	return out
}

// NewValidator returns a validator that reports JSON field names and
// enforces the given rule tables.
func NewValidator(sets ...RuleSet) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	RegisterValidators(v)
	for _, s := range sets {
		v.RegisterStructValidationMapRules(s.tagRules(), s.Type)
	}
	return v
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

func ruleKey(typeName, field, tag string) string {
	return typeName + "." + field + "|" + tag
}

// tagName strips the parameter from a tag such as "max=255".
func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, "=")
	return name
}

func indexRules(sets []RuleSet) map[string]Rule {
	idx := make(map[string]Rule)
	for _, s := range sets {
		typeName := s.typeName()
		for _, r := range s.Rules {
			idx[ruleKey(typeName, r.Field, tagName(r.Tag))] = r
		}
	}
	return idx
}
