// internal/transport/whatsapp.go
package transport

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync/atomic"

	qrterminal "github.com/mdp/qrterminal/v3"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	// session store drivers: sqlite by default, postgres optional
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// WhatsAppSender drives a real WhatsApp session through whatsmeow. Pairing,
// session persistence and the wire protocol all live in the library; this
// type only connects, tracks readiness and sends plain text messages.
type WhatsAppSender struct {
	client *whatsmeow.Client
	ready  atomic.Bool
}

// NewWhatsAppSender opens the session store ("sqlite3" or "postgres") and
// prepares a client for the first stored device, creating one if none exists.
func NewWhatsAppSender(ctx context.Context, driver, dsn string) (*WhatsAppSender, error) {
	logger := waLog.Stdout("whatsmeow", "INFO", true)
	container, err := sqlstore.New(ctx, driver, dsn, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load device: %w", err)
	}
	if device == nil {
		device = container.NewDevice()
	}

	s := &WhatsAppSender{client: whatsmeow.NewClient(device, logger)}
	s.client.AddEventHandler(func(e interface{}) {
		switch e.(type) {
		case *events.Connected:
			s.ready.Store(true)
		case *events.Disconnected:
			s.ready.Store(false)
		case *events.LoggedOut:
			// Linked device removed from the phone; a restart re-pairs.
			s.ready.Store(false)
			log.Println("⚠️ WhatsApp session logged out by the primary device")
		}
	})
	return s, nil
}

// Connect dials the session. On a fresh device it prints a pairing QR code to
// the terminal and blocks until the phone scans it or the channel times out.
func (s *WhatsAppSender) Connect(ctx context.Context) error {
	if s.client.Store.ID == nil {
		qrCh, err := s.client.GetQRChannel(ctx)
		if err != nil {
			return err
		}
		go func() {
			for evt := range qrCh {
				switch evt.Event {
				case "code":
					log.Println("Scan this QR code with WhatsApp on your phone:")
					qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
				case "timeout":
					log.Println("⚠️ QR code timed out, call connect again to retry")
				}
			}
		}()
	}
	return s.client.Connect()
}

func (s *WhatsAppSender) Connected() bool {
	return s.ready.Load() && s.client.IsLoggedIn()
}

// Send delivers a plain text message. The JID is the normalized number on the
// default user server (…@s.whatsapp.net).
func (s *WhatsAppSender) Send(ctx context.Context, phone, body string) error {
	jid := types.NewJID(phone, types.DefaultUserServer)
	msg := &waProto.Message{Conversation: proto.String(body)}
	_, err := s.client.SendMessage(ctx, jid, msg)
	return err
}

// Disconnect tears the session down. Used on shutdown only.
func (s *WhatsAppSender) Disconnect() {
	s.client.Disconnect()
}
