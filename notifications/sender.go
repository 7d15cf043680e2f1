package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/anjiri1684/quiz_connect/logger"
)

type Message struct {
	ToName  string
	ToEmail string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher delivers messages without blocking the caller. A failed delivery
// is logged and never reported back.
type Dispatcher struct {
	sender Sender
	log    logger.Logger
	inline bool
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, log logger.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, log: log}
}

// NewInlineDispatcher delivers on the calling goroutine.
func NewInlineDispatcher(sender Sender, log logger.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, log: log, inline: true}
}

func (d *Dispatcher) Dispatch(msg Message) {
	if d == nil || d.sender == nil {
		return
	}
	if d.inline {
		d.deliver(msg)
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(msg)
	}()
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		d.log.Error("🔥 Failed to send email", err, map[string]interface{}{"to": msg.ToEmail, "subject": msg.Subject})
		return
	}
	d.log.Info("✅ Email sent to " + msg.ToEmail)
}

// Wait blocks until in-flight deliveries finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
