package worker

// email_worker.go
// Processes email jobs from QueueEmail: resúmenes de cierre de caja y
// cualquier notificación administrativa.

import (
	"context"
	"encoding/json"
	"errors"

	"fondapos/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail. An empty ToEmail
// falls back to the configured admin address.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type EmailWorker struct {
	mailer       *infra.Mailer
	defaultEmail string
}

func NewEmailWorker(mailer *infra.Mailer, defaultEmail string) *EmailWorker {
	return &EmailWorker{mailer: mailer, defaultEmail: defaultEmail}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return err
	}

	to := payload.ToEmail
	if to == "" {
		to = w.defaultEmail
	}
	if to == "" {
		log.Warn().Msg("email_worker: no destination address — skipping")
		return errors.New("sin destinatario")
	}

	if err := w.mailer.Send(to, payload.Subject, payload.Body); err != nil {
		log.Error().Err(err).Str("to", to).Msg("email_worker: failed to send email")
		return err
	}
	log.Info().Str("to", to).Str("subject", payload.Subject).Msg("email_worker: email sent")
	return nil
}
