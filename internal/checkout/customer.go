package checkout

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"chocostore/internal/domain"
)

var phonePattern = regexp.MustCompile(`^(\+221|221)?[0-9]{9}$`)

// CustomerInfo is what the visitor types into the order form.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
}

// ValidationError lists the form fields that failed validation.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid customer info: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// Validate checks the required fields and the Senegalese phone format.
// Spaces in the phone number are ignored.
func (c CustomerInfo) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(c.Name) == "" {
		fields["name"] = "Le nom est requis"
	}
	phone := strings.TrimSpace(c.Phone)
	switch {
	case phone == "":
		fields["phone"] = "Le téléphone est requis"
	case !phonePattern.MatchString(strings.Join(strings.Fields(phone), "")):
		fields["phone"] = "Format invalide"
	}
	if strings.TrimSpace(c.Address) == "" {
		fields["address"] = "L'adresse est requise"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// NormalizedPhone is the phone number with whitespace removed.
func (c CustomerInfo) NormalizedPhone() string {
	return strings.Join(strings.Fields(c.Phone), "")
}
