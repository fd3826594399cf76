// internal/service/campaign_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	appErrors "github.com/unclebandit/zapblast-backend/internal/errors"
	"github.com/unclebandit/zapblast-backend/internal/events"
	"github.com/unclebandit/zapblast-backend/internal/logring"
	"github.com/unclebandit/zapblast-backend/internal/model"
	"github.com/unclebandit/zapblast-backend/internal/transport"
)

var (
	ErrNotConnected   = appErrors.NewPrecondition("WhatsApp não está conectado")
	ErrNoContacts     = appErrors.NewPrecondition("nenhum contato carregado, envie um CSV primeiro")
	ErrAlreadySending = appErrors.NewPrecondition("um envio já está em andamento")
	ErrBadTime        = appErrors.NewValidation("horário inválido, use o formato HH:MM")
)

// Pause after a failed delivery. Kept shorter than the configured
// inter-message delay so one bad number does not stall the whole run.
const failureDelay = 2 * time.Second

// CampaignService owns the single in-process campaign: the contact list, the
// progress counters and the send loop. One run at a time; cancellation is
// cooperative, the loop polls the sending flag between contacts and never
// interrupts an in-flight delivery.
type CampaignService struct {
	Sender transport.Sender
	Log    *logring.Ring
	Events *events.Publisher

	mu       sync.Mutex
	contacts []model.Contact
	sending  bool
	current  int
	total    int
}

// StatusSnapshot is a read-only view for the status endpoint.
type StatusSnapshot struct {
	IsConnected bool
	IsSending   bool
	Current     int
	Total       int
}

// Connect is idempotent. When a handshake is needed it runs on its own
// goroutine and the call returns an acknowledgment immediately; completion
// (or failure) is reported through the log ring.
func (s *CampaignService) Connect() string {
	if s.Sender.Connected() {
		return "WhatsApp já está conectado"
	}

	s.Log.Append("Iniciando conexão com o WhatsApp...", model.LogInfo)
	go func() {
		if err := s.Sender.Connect(context.Background()); err != nil {
			log.Println("⚠️ failed to connect:", err)
			s.Log.Append("Erro ao conectar: "+err.Error(), model.LogError)
			return
		}
		s.Log.Append("WhatsApp conectado com sucesso!", model.LogSuccess)
	}()
	return "Conexão iniciada, aguarde..."
}

// LoadContacts replaces the contact list wholesale. Rejected mid-run: the
// list is read-only while the loop iterates it.
func (s *CampaignService) LoadContacts(contacts []model.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sending {
		return ErrAlreadySending
	}
	s.contacts = contacts
	s.Log.Append(fmt.Sprintf("%d contatos carregados", len(contacts)), model.LogSuccess)
	return nil
}

// ContactCount reports how many contacts are loaded.
func (s *CampaignService) ContactCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contacts)
}

// preconditions must hold before a run may start. Checked in order; the
// first violation wins. Caller holds s.mu.
func (s *CampaignService) preconditions() error {
	if !s.Sender.Connected() {
		return ErrNotConnected
	}
	if len(s.contacts) == 0 {
		return ErrNoContacts
	}
	if s.sending {
		return ErrAlreadySending
	}
	return nil
}

// Start begins a run over the loaded contacts with the given inter-message
// delay. customMessage, when non-blank, overrides every contact's own
// template. The loop runs on its own goroutine; progress is observable
// through Status and the log ring.
func (s *CampaignService) Start(delay time.Duration, customMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.preconditions(); err != nil {
		return err
	}

	s.sending = true
	s.current = 0
	s.total = len(s.contacts)
	batch := make([]model.Contact, len(s.contacts))
	copy(batch, s.contacts)

	s.Log.Append(fmt.Sprintf("Envio iniciado para %d contatos", s.total), model.LogInfo)
	go s.run(batch, delay, customMessage)
	return nil
}

// run is the send loop. It stops iterating the moment the sending flag goes
// false, checked at the top of each step and again before each pause.
func (s *CampaignService) run(contacts []model.Contact, delay time.Duration, customMessage string) {
	for i, c := range contacts {
		if !s.isSending() {
			return
		}

		body := c.TemplateMessage
		if strings.TrimSpace(customMessage) != "" {
			body = customMessage
		}
		body = RenderTemplate(body, map[string]string{"nome": c.DisplayName})

		s.Log.Append(fmt.Sprintf("Enviando para %s (%s)...", c.DisplayName, c.PhoneNumber), model.LogInfo)

		err := s.Sender.Send(context.Background(), c.PhoneNumber, body)
		if err != nil {
			log.Println("⚠️ delivery failed for", c.PhoneNumber, ":", err)
			s.Log.Append(fmt.Sprintf("Erro ao enviar para %s: %v", c.DisplayName, err), model.LogError)
			s.publishOutcome(c, "failed", err.Error())
		} else {
			s.Log.Append("Mensagem enviada para "+c.DisplayName, model.LogSuccess)
			s.publishOutcome(c, "sent", "")
		}

		// Progress counts attempts, not successes.
		s.setCurrent(i + 1)

		if i < len(contacts)-1 && s.isSending() {
			pause := delay
			if err != nil {
				pause = failureDelay
			}
			time.Sleep(pause)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sending {
		s.Log.Append(fmt.Sprintf("Envio concluído: %d/%d contatos processados", s.current, s.total), model.LogSuccess)
		s.sending = false
	}
}

// Cancel stops a run between contacts. Idempotent: cancelling when nothing
// is running only returns an acknowledgment.
func (s *CampaignService) Cancel() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sending {
		return "Nenhum envio em andamento"
	}
	s.sending = false
	s.Log.Append(fmt.Sprintf("Envio cancelado em %d/%d", s.current, s.total), model.LogInfo)
	return "Envio cancelado"
}

// ScheduleStart arms a deferred Start at the next wall-clock occurrence of
// hhmm: today if still ahead, tomorrow otherwise, never further. Start's own
// preconditions are re-checked when the timer fires; two armed schedules are
// not prevented, whichever fires second loses to the already-sending guard.
func (s *CampaignService) ScheduleStart(hhmm string, delay time.Duration, customMessage string) (time.Time, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return time.Time{}, ErrBadTime
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, ErrBadTime
	}

	s.mu.Lock()
	err := s.preconditions()
	s.mu.Unlock()
	if err != nil {
		return time.Time{}, err
	}

	now := time.Now()
	at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !at.After(now) {
		at = at.Add(24 * time.Hour)
	}

	s.Log.Append("Envio agendado para "+at.Format("02/01/2006 15:04"), model.LogInfo)
	time.AfterFunc(time.Until(at), func() {
		if err := s.Start(delay, customMessage); err != nil {
			log.Println("⚠️ scheduled start rejected:", err)
			s.Log.Append("Envio agendado não iniciado: "+err.Error(), model.LogError)
		}
	})
	return at, nil
}

// Status returns a read-only snapshot for the polling client.
func (s *CampaignService) Status() StatusSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatusSnapshot{
		IsConnected: s.Sender.Connected(),
		IsSending:   s.sending,
		Current:     s.current,
		Total:       s.total,
	}
}

func (s *CampaignService) isSending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

func (s *CampaignService) setCurrent(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = n
}

func (s *CampaignService) publishOutcome(c model.Contact, status, detail string) {
	err := s.Events.PublishOutcome(events.DeliveryEvent{
		PhoneNumber: c.PhoneNumber,
		Status:      status,
		Detail:      detail,
		At:          time.Now(),
	})
	if err != nil {
		log.Println("⚠️ failed to publish delivery event:", err)
	}
}
