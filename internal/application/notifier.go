package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskboard/internal/domain/entity"
	"github.com/oksasatya/taskboard/pkg/mailer"
	mailtpl "github.com/oksasatya/taskboard/pkg/mailer/templates"
)

// Notifier enqueues account emails. Delivery is best-effort: failures are
// logged and never surface to the caller. A nil Notifier does nothing.
type Notifier struct {
	pub     Publisher
	appName string
	logger  *logrus.Logger
	now     func() time.Time
}

func NewNotifier(pub Publisher, appName string, logger *logrus.Logger) *Notifier {
	if pub == nil {
		return nil
	}
	return &Notifier{pub: pub, appName: appName, logger: logger, now: time.Now}
}

func (n *Notifier) Welcome(ctx context.Context, u *entity.User) {
	if n == nil {
		return
	}
	n.publish(ctx, u, mailtpl.Welcome, mailtpl.NewWelcomeData(n.appName, u.Name, u.Email))
}

func (n *Notifier) ProfileUpdated(ctx context.Context, u *entity.User, changes map[string]string) {
	if n == nil || len(changes) == 0 {
		return
	}
	n.publish(ctx, u, mailtpl.ProfileUpdated,
		mailtpl.NewProfileUpdatedData(n.appName, u.Name, u.Email, changes, mailtpl.WithTime(n.now())))
}

func (n *Notifier) PasswordChanged(ctx context.Context, u *entity.User, meta ClientMeta) {
	if n == nil {
		return
	}
	n.publish(ctx, u, mailtpl.PasswordChanged,
		mailtpl.NewPasswordChangedData(n.appName, u.Name, u.Email,
			mailtpl.WithTime(n.now()), mailtpl.WithIP(meta.IP), mailtpl.WithUserAgent(meta.UserAgent)))
}

func (n *Notifier) publish(ctx context.Context, u *entity.User, template string, data map[string]any) {
	job := mailer.EmailJob{To: u.Email, Template: template, Data: data}
	if err := n.pub.PublishJSON(ctx, job); err != nil && n.logger != nil {
		n.logger.WithError(err).WithFields(logrus.Fields{"user_id": u.ID, "template": template}).Warn("enqueue email failed")
	}
}
