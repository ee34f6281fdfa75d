package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
)

var (
	// Validate is a shared validator instance. Field names in its errors are
	// the environment variable names derived from mapstructure tags.
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()
	Validate.RegisterTagNameFunc(envName)

	if err := Validate.RegisterValidation("rate", validateRate); err != nil {
		panic(fmt.Sprintf("failed to register rate validator: %v", err))
	}
	if err := Validate.RegisterValidation("origins", validateOrigins); err != nil {
		panic(fmt.Sprintf("failed to register origins validator: %v", err))
	}
}

// envName maps a struct field to LOG_LEVEL style names via its mapstructure tag
func envName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return strings.ToUpper(name)
}

// validateRate accepts rates in the "<limit>-<period>" form, e.g. 100-M
func validateRate(fl validator.FieldLevel) bool {
	return ValidateRate(fl.Field().String()) == nil
}

// validateOrigins accepts "*" or a comma-separated list of origins
func validateOrigins(fl validator.FieldLevel) bool {
	return ValidateOrigins(fl.Field().String()) == nil
}

// ValidateRate validates a formatted rate such as "100-M" or "5-S"
func ValidateRate(value string) error {
	if _, err := limiter.NewRateFromFormatted(strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid rate %q (want <limit>-<S|M|H|D>): %w", value, err)
	}
	return nil
}

// ValidateOrigins validates a CORS origin list. Each entry is "*" or a
// scheme://host[:port] origin; a single "*" wildcard inside the host is allowed.
func ValidateOrigins(value string) error {
	entries := strings.Split(value, ",")
	for _, raw := range entries {
		origin := strings.TrimSpace(raw)
		if origin == "" {
			continue
		}
		if origin == "*" {
			continue
		}
		if strings.Count(origin, "*") > 1 {
			return fmt.Errorf("invalid origin %q: at most one wildcard", origin)
		}
		u, err := url.Parse(strings.Replace(origin, "*", "wildcard", 1))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid origin %q: want scheme://host", origin)
		}
		if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
			return fmt.Errorf("invalid origin %q: must not contain a path", origin)
		}
	}
	return nil
}

// Describe flattens validator errors into one readable error naming each
// failing field. Other errors are returned unchanged.
func Describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s)", fe.Param())
		}
		msgs = append(msgs, SanitizeText(msg))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}
