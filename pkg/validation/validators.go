package validation

import (
	"net/netip"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/idna"
)

// Whitespace set including the vertical tab, which Go's \s leaves out.
var whitespaceOnlyRegex = regexp.MustCompile(`^[ \t\n\x0B\f\r]+$`)

const (
	maxLocalPartLength = 64
	maxDomainLength    = 255

	localAtom       = "[a-z0-9!#$%&'*+/=?^_`{|}~\\x{0080}-\\x{10FFFF}-]"
	localQuotedAtom = "(?:[a-z0-9!#$%&'*.(),<>\\[\\]:;  @+/=?^_`{|}~\\x{0080}-\\x{10FFFF}-]|\\\\\\\\|\\\\\")"
	localWord       = "(?:" + localAtom + "+|\"" + localQuotedAtom + "+\")"
	domainLabel     = "[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?"
)

var (
	localPartRegex = regexp.MustCompile("(?i)^" + localWord + "(?:\\." + localWord + ")*$")
	// Single-label domains such as "localhost" are accepted.
	domainRegex = regexp.MustCompile("(?i)^" + domainLabel + "(?:\\." + domainLabel + ")*$")
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("whitespace_only", WhitespaceOnly)
	_ = v.RegisterValidation("loose_email", LooseEmail)
}

// WhitespaceOnly passes when the whole value consists of whitespace.
// An empty string does not match.
func WhitespaceOnly(fl validator.FieldLevel) bool {
	return whitespaceOnlyRegex.MatchString(fl.Field().String())
}

// LooseEmail passes empty values and addresses whose domain is a hostname of
// one or more labels or a bracketed IP literal. No TLD is required.
func LooseEmail(fl validator.FieldLevel) bool {
	return IsEmail(fl.Field().String())
}

func IsEmail(value string) bool {
	if value == "" {
		return true
	}

	at := strings.LastIndexByte(value, '@')
	if at < 0 {
		return false
	}
	local, domain := value[:at], value[at+1:]

	if len(local) > maxLocalPartLength || !localPartRegex.MatchString(local) {
		return false
	}
	return isEmailDomain(domain)
}

func isEmailDomain(domain string) bool {
	if domain == "" || strings.HasSuffix(domain, ".") {
		return false
	}

	if strings.HasPrefix(domain, "[") && strings.HasSuffix(domain, "]") {
		literal := strings.TrimPrefix(domain[1:len(domain)-1], "IPv6:")
		_, err := netip.ParseAddr(literal)
		return err == nil
	}

	ascii, err := idna.ToASCII(domain)
	if err != nil || len(ascii) > maxDomainLength {
		return false
	}
	return domainRegex.MatchString(ascii)
}
