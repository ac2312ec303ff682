package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/taskboard/pkg/mailer/templates"
)

// Outcome tells the consumer how to settle a delivery.
type Outcome int

const (
	Ack     Outcome = iota
	Drop            // nack without requeue: the message can never succeed
	Requeue         // nack with requeue: sending failed transiently
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Drop:
		return "drop"
	default:
		return "requeue"
	}
}

var ErrNoRecipient = errors.New("email job has no recipient")

// Worker renders queued EmailJobs and hands them to a Sender.
type Worker struct {
	Sender      Sender
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

func NewWorker(sender Sender, logger *logrus.Logger) *Worker {
	return &Worker{Sender: sender, Logger: logger, SendTimeout: 15 * time.Second}
}

// Prepare decodes and renders one message body. A template job takes its
// subject and bodies from the template set.
func Prepare(body []byte) (EmailJob, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, err
	}
	if job.To == "" {
		return job, ErrNoRecipient
	}
	if job.Template == "" {
		return job, nil
	}
	subject, text, html, err := mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return job, err
	}
	job.Subject, job.Text, job.HTML = subject, text, html
	return job, nil
}

// Handle processes one delivery body and reports how to settle it.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	job, err := Prepare(body)
	if err != nil {
		w.Logger.WithError(err).Warn("dropping email job")
		return Drop
	}

	ctx, cancel := context.WithTimeout(ctx, w.SendTimeout)
	defer cancel()
	if err := w.Sender.Send(ctx, job.To, job.Subject, job.Text, job.HTML); err != nil {
		w.Logger.WithError(err).WithFields(logrus.Fields{
			"to":       job.To,
			"template": job.Template,
		}).Error("email send failed")
		return Requeue
	}
	w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return Ack
}
