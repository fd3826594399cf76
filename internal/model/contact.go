// internal/model/contact.go
package model

// Contact is one recipient row parsed out of an uploaded CSV. The phone
// number is digits only, already prefixed with the country code.
type Contact struct {
    PhoneNumber     string `json:"phoneNumber"`
    DisplayName     string `json:"name"`
    TemplateMessage string `json:"message"`
}
