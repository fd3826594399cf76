// internal/service/contact_service.go
package service

import (
	"strings"

	appErrors "github.com/unclebandit/zapblast-backend/internal/errors"
	"github.com/unclebandit/zapblast-backend/internal/model"
)

var (
	ErrEmptyInput      = appErrors.NewValidation("arquivo CSV vazio ou sem linhas de dados")
	ErrNoValidContacts = appErrors.NewValidation("nenhum contato válido encontrado no arquivo")
)

const (
	countryCode    = "55"
	defaultName    = "Cliente"
	defaultMessage = "Olá!"
	minPhoneDigits = 10
)

// ParseContacts turns raw CSV text into the ordered contact list. The first
// non-blank line is always treated as a header and dropped. Rows that do not
// yield a usable phone number are skipped silently, never reported as errors;
// the call only fails when no data rows exist or none survive filtering.
func ParseContacts(raw string) ([]model.Contact, error) {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, ErrEmptyInput
	}

	var contacts []model.Contact
	for _, line := range lines[1:] {
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			continue
		}
		for i := range fields {
			fields[i] = trimField(fields[i])
		}

		phone := digitsOnly(fields[0])
		if len(phone) < minPhoneDigits {
			continue
		}
		if !strings.HasPrefix(phone, countryCode) {
			phone = countryCode + phone
		}

		c := model.Contact{
			PhoneNumber:     phone,
			DisplayName:     defaultName,
			TemplateMessage: defaultMessage,
		}
		if fields[1] != "" {
			c.DisplayName = fields[1]
		}
		if len(fields) > 2 && fields[2] != "" {
			c.TemplateMessage = fields[2]
		}
		contacts = append(contacts, c)
	}

	if len(contacts) == 0 {
		return nil, ErrNoValidContacts
	}
	return contacts, nil
}

// trimField strips surrounding whitespace and quote characters.
func trimField(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"'`))
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
