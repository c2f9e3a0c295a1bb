package notifsvc

import (
	"log"
	"sync"

	"github.com/shuletech/udahili/core"
)

// consoleService prints notifications to the standard logger; used in
// DEV and TEST modes. Sent messages are recorded for test assertions.
type consoleService struct {
	mu   sync.Mutex
	sent []core.Notification
}

var _ core.Notifier = (*consoleService)(nil)

func NewConsoleService() *consoleService {
	return &consoleService{}
}

func (svc *consoleService) SendNotifications(messages ...*core.Notification) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, msg := range messages {
		if !msg.HasRecipients() {
			continue
		}
		for _, to := range msg.To {
			log.Printf("notification to %s: %s\n%s", to.Address, msg.Subject, msg.Body)
		}
		svc.sent = append(svc.sent, *msg)
	}
}

// SentMessages returns a snapshot of everything sent so far.
func (svc *consoleService) SentMessages() []core.Notification {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]core.Notification(nil), svc.sent...)
}
