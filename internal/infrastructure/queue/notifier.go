package queue

import (
	"context"
	"time"

	"github.com/oksasatya/blogx-api/pkg/helpers"
	"github.com/oksasatya/blogx-api/pkg/mailer"
)

// MessageTypeEmail is the AMQP type of every notification job.
const MessageTypeEmail = "email"

// Publisher is the part of helpers.RabbitPublisher the notifier needs.
type Publisher interface {
	PublishJSON(ctx context.Context, msgType string, body any) error
}

// Notifier puts email jobs on the notification queue for the worker.
type Notifier struct {
	Pub     Publisher
	Timeout time.Duration
}

func NewNotifier(pub *helpers.RabbitPublisher) *Notifier {
	return &Notifier{Pub: pub, Timeout: 3 * time.Second}
}

func (n *Notifier) Notify(ctx context.Context, job mailer.EmailJob) error {
	if n.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.Timeout)
		defer cancel()
	}
	return n.Pub.PublishJSON(ctx, MessageTypeEmail, job)
}
