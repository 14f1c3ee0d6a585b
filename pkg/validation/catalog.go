package validation

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when a request names no supported locale.
const DefaultLocale = "pt_BR"

// ErrMessageNotFound means no catalog entry covers a violation.
var ErrMessageNotFound = errors.New("validation message not found")

//go:embed messages/*.yaml
var messageFiles embed.FS

// locales that catalog files may be written for
var knownLocales = map[string]func() locales.Translator{
	"pt_BR": pt_BR.New,
	"en":    en.New,
}

// Catalog resolves field violations to localized text. It is read-only
// after construction and safe for concurrent use.
type Catalog struct {
	uni      *ut.UniversalTranslator
	fallback string
	locales  []string
	rules    map[string]Rule
}

// NewCatalog loads the embedded message files.
func NewCatalog(fallback string, sets ...RuleSet) (*Catalog, error) {
	sub, err := fs.Sub(messageFiles, "messages")
	if err != nil {
		return nil, err
	}
	return NewCatalogFS(sub, fallback, sets...)
}

// NewCatalogFS loads one <locale>.yaml per locale from fsys and checks that
// every rule's message key exists in every locale.
func NewCatalogFS(fsys fs.FS, fallback string, sets ...RuleSet) (*Catalog, error) {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}

	bundles := make(map[string]map[string]string, len(files))
	for _, file := range files {
		locale := strings.TrimSuffix(path.Base(file), ".yaml")
		if _, ok := knownLocales[locale]; !ok {
			return nil, fmt.Errorf("message file %s: unsupported locale %q", file, locale)
		}
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		var messages map[string]string
		if err := yaml.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		bundles[locale] = messages
	}

	if _, ok := bundles[fallback]; !ok {
		return nil, fmt.Errorf("no messages for fallback locale %q", fallback)
	}

	names := make([]string, 0, len(bundles))
	for locale := range bundles {
		if locale != fallback {
			names = append(names, locale)
		}
	}
	sort.Strings(names)
	names = append([]string{fallback}, names...)

	supported := make([]locales.Translator, 0, len(names))
	for _, locale := range names {
		supported = append(supported, knownLocales[locale]())
	}
	uni := ut.New(supported[0], supported...)

	for _, locale := range names {
		trans, _ := uni.GetTranslator(locale)
		if err := addMessages(trans, bundles[locale]); err != nil {
			return nil, fmt.Errorf("locale %s: %w", locale, err)
		}
	}

	c := &Catalog{
		uni:      uni,
		fallback: fallback,
		locales:  names,
		rules:    indexRules(sets),
	}
	if err := c.verify(bundles); err != nil {
		return nil, err
	}
	return c, nil
}

func addMessages(trans ut.Translator, messages map[string]string) error {
	keys := make([]string, 0, len(messages))
	for key := range messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		text := messages[key]
		// Resolve passes exactly two params: {0} field, {1} rule parameter
		if strings.Contains(text, "{2}") {
			return fmt.Errorf("message %q: only {0} and {1} are available", key)
		}
		if err := trans.Add(key, text, false); err != nil {
			return fmt.Errorf("message %q: %w", key, err)
		}
	}
	return nil
}

func (c *Catalog) verify(bundles map[string]map[string]string) error {
	var errs []error
	for _, locale := range c.locales {
		for _, r := range c.rules {
			if _, ok := bundles[locale][r.MessageKey]; !ok {
				errs = append(errs, fmt.Errorf("locale %s: missing message %q for %s", locale, r.MessageKey, r.Field))
			}
		}
	}
	return errors.Join(errs...)
}

// Locales lists the loaded locales, fallback first.
func (c *Catalog) Locales() []string {
	return append([]string(nil), c.locales...)
}

// Resolve tries the codes <tag>.<namespace>, <tag>.<field> and <tag>, then
// the rule's own message key. Unknown locales use the fallback.
func (c *Catalog) Resolve(fe validator.FieldError, locale string) (string, error) {
	trans, _ := c.uni.GetTranslator(locale)
	params := []string{fe.Field(), fe.Param()}

	for _, code := range c.codes(fe) {
		if msg, err := trans.T(code, params...); err == nil {
			return msg, nil
		}
	}
	return "", fmt.Errorf("%w: field %q tag %q locale %s", ErrMessageNotFound, fe.Field(), fe.Tag(), trans.Locale())
}

func (c *Catalog) codes(fe validator.FieldError) []string {
	tag := fe.Tag()
	codes := []string{
		tag + "." + fe.Namespace(),
		tag + "." + fe.Field(),
		tag,
	}
	typeName, _, _ := strings.Cut(fe.Namespace(), ".")
	if r, ok := c.rules[ruleKey(typeName, fe.Field(), tag)]; ok {
		codes = append(codes, r.MessageKey)
	}
	return codes
}
