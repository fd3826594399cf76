// internal/transport/sender.go
package transport

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"
)

// Sender delivers one text message to one recipient phone number. The
// implementation is picked once at startup: a real WhatsApp session when one
// is configured, the simulator otherwise.
type Sender interface {
	// Connect establishes the session. May block (QR pairing, handshake);
	// callers run it on its own goroutine.
	Connect(ctx context.Context) error
	// Connected reports whether the sender can deliver right now.
	Connected() bool
	// Send delivers body to the given digits-only phone number.
	Send(ctx context.Context, phone, body string) error
}

// SimulatedSender stands in for WhatsApp when no session is configured: every
// send takes a fixed small latency and fails with a configurable probability.
type SimulatedSender struct {
	FailureRate float64
	Latency     time.Duration
	Handshake   time.Duration

	connected atomic.Bool
}

// NewSimulatedSender builds a simulator with the given failure probability
// (clamped to [0, 1]; values <= 0 fall back to the 5% default).
func NewSimulatedSender(failureRate float64) *SimulatedSender {
	if failureRate <= 0 {
		failureRate = 0.05
	}
	if failureRate > 1 {
		failureRate = 1
	}
	return &SimulatedSender{
		FailureRate: failureRate,
		Latency:     300 * time.Millisecond,
		Handshake:   1500 * time.Millisecond,
	}
}

func (s *SimulatedSender) Connect(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.Handshake):
	}
	s.connected.Store(true)
	return nil
}

func (s *SimulatedSender) Connected() bool {
	return s.connected.Load()
}

func (s *SimulatedSender) Send(ctx context.Context, phone, body string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.Latency):
	}
	if rand.Float64() < s.FailureRate {
		return fmt.Errorf("falha simulada no envio para %s", phone)
	}
	return nil
}
