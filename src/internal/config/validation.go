package config

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/credential"
	"github.com/valyala/fasttemplate"
)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "max":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "url":
		return "must be a valid URL"
	case "ip":
		return "must be a valid IP address"
	case "hostname_rfc1123":
		return "must be a valid hostname"
	case "isp":
		return "must be one of: EDU, CMCC, CT"
	case "hostport_or_empty":
		return "must be in format 'host:port' or empty"
	case "dns_server":
		return "must be an IP address with optional port (IPv6 with port must be in square brackets)"
	case "login_url":
		return "must be a URL template using {{account}}, {{password}}, {{user_ip}}, {{ac_ip}}, {{ac_name}}"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	FieldPath string // Dot-notation field path (e.g., "dns.servers.0", "portal.login_url")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "validation failed with %d error(s):\n", len(ve))
	for i, err := range ve {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.FieldPath, err.Message)
	}
	return sb.String()
}

var validate *validator.Validate

var loginTemplateTags = map[string]bool{
	"account":  true,
	"password": true,
	"user_ip":  true,
	"ac_ip":    true,
	"ac_name":  true,
}

func init() {
	validate = validator.New()

	custom := map[string]validator.Func{
		"hostport_or_empty": validateHostPortOrEmpty,
		"isp":               validateISP,
		"dns_server":        validateDNSServer,
		"login_url":         validateLoginURL,
	}
	for tag, fn := range custom {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	// Report TOML key names instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validator: host:port format or empty
func validateHostPortOrEmpty(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, _, err := net.SplitHostPort(value)
	return err == nil
}

func validateISP(fl validator.FieldLevel) bool {
	_, err := credential.ParseIspType(fl.Field().String())
	return err == nil
}

// Custom validator: "ip", "ip:port" or "[ipv6]:port"
func validateDNSServer(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if ip := net.ParseIP(value); ip != nil {
		return true
	}
	host, _, err := net.SplitHostPort(value)
	return err == nil && net.ParseIP(host) != nil
}

// Custom validator: fasttemplate with known tags that renders to an absolute URL
func validateLoginURL(fl validator.FieldLevel) bool {
	tpl, err := fasttemplate.NewTemplate(fl.Field().String(), "{{", "}}")
	if err != nil {
		return false
	}
	known := true
	rendered := tpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		if !loginTemplateTags[tag] {
			known = false
		}
		return w.Write([]byte("x"))
	})
	if !known {
		return false
	}
	u, err := url.Parse(rendered)
	return err == nil && u.IsAbs() && u.Host != ""
}
