package notifier

import (
	"context"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/edutrack/edutrack/core"
)

var (
	SentNotifications = make([]core.Notification, 0)
	mu                sync.Mutex
)

// consoleNotifier prints notifications instead of sending them (mock mode).
type consoleNotifier struct {
	std           *log.Logger
	disableOutput bool
}

var _ core.Notifier = (*consoleNotifier)(nil)

func NewConsoleNotifier(std *log.Logger) core.Notifier {
	if std == nil {
		std = log.New(os.Stdout, "", log.LstdFlags)
	}
	return &consoleNotifier{std: std}
}

func NewConsoleNotifierMock() core.Notifier {
	return &consoleNotifier{disableOutput: true}
}

func (svc consoleNotifier) Notify(ctx context.Context, n core.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(n); err != nil {
		return err
	}

	if !svc.disableOutput {
		body := new(strings.Builder)
		body.WriteString("--- MOCK WHATSAPP SENT ---\n")
		body.WriteString("To: " + core.WhatsAppAddress(n.To.Phone) + "\n")
		if n.To.Email != "" {
			body.WriteString("Email: " + n.To.Email + "\n")
		}
		body.WriteString("Body: " + n.Body + "\n")
		body.WriteString("--------------------------")
		svc.std.Println(body.String())
	}

	mu.Lock()
	SentNotifications = append(SentNotifications, n)
	mu.Unlock()
	return nil
}

// ResetSentNotifications empties SentNotifications, for tests.
func ResetSentNotifications() {
	mu.Lock()
	SentNotifications = SentNotifications[:0]
	mu.Unlock()
}

// Sent returns a copy of SentNotifications.
func Sent() []core.Notification {
	mu.Lock()
	defer mu.Unlock()
	return append([]core.Notification{}, SentNotifications...)
}
