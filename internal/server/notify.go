package server

import (
	"context"
	"sync"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/email"
	"go.uber.org/zap"
)

const notifyTimeout = 20 * time.Second

// notifier sends account emails in the background. Failures are logged and
// never reach the request that triggered them.
type notifier struct {
	composer *email.Composer
	sender   email.Sender
	logger   *zap.Logger
	wg       sync.WaitGroup
}

func newNotifier(composer *email.Composer, sender email.Sender, logger *zap.Logger) *notifier {
	return &notifier{composer: composer, sender: sender, logger: logger}
}

// enabled reports whether messages can be composed and sent.
func (n *notifier) enabled() bool {
	return n.composer != nil && n.sender != nil
}

// send delivers msg synchronously.
func (n *notifier) send(ctx context.Context, msg email.Message) error {
	if !n.enabled() {
		return email.ErrNoSender
	}
	id, err := n.sender.Send(ctx, msg)
	if err != nil {
		return err
	}
	n.logger.Debug("email sent", zap.String("to", msg.To), zap.String("message_id", id))
	return nil
}

// sendAsync composes and sends a message after the request returns.
func (n *notifier) sendAsync(ctx context.Context, kind string, compose func(*email.Composer) (email.Message, error)) {
	if !n.enabled() {
		return
	}
	ctx = context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()

		msg, err := compose(n.composer)
		if err != nil {
			n.logger.Error("failed to compose email", zap.String("kind", kind), zap.Error(err))
			return
		}
		if err := n.send(ctx, msg); err != nil {
			n.logger.Warn("failed to send email", zap.String("kind", kind), zap.String("to", msg.To), zap.Error(err))
		}
	}()
}

// wait blocks until background sends finish.
func (n *notifier) wait() {
	n.wg.Wait()
}
