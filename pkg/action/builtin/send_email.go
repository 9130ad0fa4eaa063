package builtin

import (
	"context"
	"fmt"

	"github.com/crewops/automation-engine/pkg/action"
	"github.com/crewops/automation-engine/pkg/rule"
	"github.com/crewops/automation-engine/pkg/service"
	"github.com/sirupsen/logrus"
)

// SendEmail forwards a template name and recipient list to the mailer.
// Delivery confirmation is not awaited.
type SendEmail struct {
	mailer service.Mailer
}

func NewSendEmail(mailer service.Mailer) *SendEmail {
	return &SendEmail{mailer: mailer}
}

func (a *SendEmail) Type() string {
	return TypeSendEmail
}

func (a *SendEmail) Execute(ctx context.Context, cfg action.Config, runCtx rule.Context) error {
	template := cfg.GetString("template", "")
	if template == "" {
		return fmt.Errorf("%w: send_email requires a template", action.ErrInvalidConfig)
	}

	recipients := cfg.GetStringSlice("recipients", nil)
	if len(recipients) == 0 {
		logrus.Warnf("send_email %q has no recipients, skipping", template)
		return nil
	}

	if err := a.mailer.Send(ctx, template, recipients); err != nil {
		return fmt.Errorf("failed to forward email %q: %w", template, err)
	}

	logrus.Infof("forwarded email template %q to %d recipients", template, len(recipients))
	return nil
}
