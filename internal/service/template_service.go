// internal/service/template_service.go
package service

import (
    "strings"
)

// RenderTemplate fills {placeholder} tokens in a message template. The send
// loop passes {"nome": contact display name}.
func RenderTemplate(template string, data map[string]string) string {
    result := template
    for k, v := range data {
        result = strings.ReplaceAll(result, "{"+k+"}", v)
    }
    return result
}
