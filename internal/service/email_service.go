package service

import (
	"context"
	"fmt"

	"app/internal/config"
	"app/internal/model"

	"github.com/resend/resend-go/v3"
	"github.com/rs/zerolog"
)

// EmailService sends plan-change notifications. Delivery is best effort:
// failures are logged and never propagated, so a mail outage cannot make
// Stripe re-deliver a webhook.
type EmailService interface {
	SendPlanChanged(ctx context.Context, to string, plan model.Plan)
}

type emailService struct {
	client *resend.Client // nil when RESEND_API_KEY is unset
	from   string
	logger zerolog.Logger
}

// NewEmailService creates an EmailService. Without an API key the service
// degrades to a no-op.
func NewEmailService(cfg *config.Config, logger zerolog.Logger) EmailService {
	var client *resend.Client
	if cfg.ResendAPIKey != "" {
		client = resend.NewClient(cfg.ResendAPIKey)
	}
	return &emailService{
		client: client,
		from:   cfg.EmailFrom,
		logger: logger.With().Str("service", "EmailService").Logger(),
	}
}

func (s *emailService) SendPlanChanged(ctx context.Context, to string, plan model.Plan) {
	if s.client == nil {
		s.logger.Debug().Str("to", to).Msg("Email disabled, skipping plan-change notification")
		return
	}
	if to == "" {
		s.logger.Warn().Msg("No recipient address on profile, skipping plan-change notification")
		return
	}

	subject := "Your plan has changed"
	body := fmt.Sprintf("<p>Your subscription was updated. You are now on the <strong>%s</strong> plan (up to %d blogs).</p>", plan, plan.MaxBlogs())
	if plan == model.PlanPremium {
		subject = "Welcome to Premium"
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	if _, err := s.client.Emails.Send(params); err != nil {
		s.logger.Error().Err(err).Str("to", to).Msg("Failed to send plan-change email")
		return
	}
	s.logger.Info().Str("to", to).Str("plan", string(plan)).Msg("Plan-change email sent")
}
