package service_test

import (
	"testing"

	"github.com/unclebandit/zapblast-backend/internal/service"
)

func TestRenderTemplate(t *testing.T) {
	got := service.RenderTemplate("Olá {nome}, tudo bem, {nome}?", map[string]string{"nome": "Maria"})
	if got != "Olá Maria, tudo bem, Maria?" {
		t.Errorf("RenderTemplate = %q", got)
	}
}

func TestRenderTemplateWithoutPlaceholder(t *testing.T) {
	got := service.RenderTemplate("Mensagem fixa", map[string]string{"nome": "Maria"})
	if got != "Mensagem fixa" {
		t.Errorf("RenderTemplate = %q, want unchanged text", got)
	}
}
