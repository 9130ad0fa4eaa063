package service

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogNotifier is a stand-in notifier that records notifications to the
// log. The real delivery pipeline lives outside this service; swap in
// an implementation backed by it when wiring the engine there.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Create(ctx context.Context, notification *Notification) error {
	logrus.Infof("[notify] user=%s type=%s title=%q", notification.UserID, notification.Type, notification.Title)
	return nil
}

// LogMailer is the matching stand-in for the external mail system.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(ctx context.Context, template string, recipients []string) error {
	logrus.Infof("[mail] template=%q recipients=%d", template, len(recipients))
	return nil
}
