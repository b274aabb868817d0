package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

const subjectPrefix = "matchmate.notify"

// InvitationSubject is the subject invitation events for a player go to.
func InvitationSubject(playerID string) string {
	return fmt.Sprintf("%s.invitation.%s", subjectPrefix, playerID)
}

// MatchReadySubject is the subject readiness events for a match go to.
func MatchReadySubject(matchID string) string {
	return fmt.Sprintf("%s.ready.%s", subjectPrefix, matchID)
}

// publisher is the part of *nats.Conn the notifier uses.
type publisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// NATSNotifier publishes notification events for the push gateway.
type NATSNotifier struct {
	conn publisher
	log  *logrus.Entry
}

// DialNATS connects to the server at url and returns a notifier on it.
func DialNATS(url string) (*NATSNotifier, error) {
	log := logrus.WithField("component", "nats_notifier")
	conn, err := nats.Connect(url,
		nats.Name("matchmate"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.WithField("url", c.ConnectedUrl()).Info("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return NewNATSNotifier(conn), nil
}

func NewNATSNotifier(conn publisher) *NATSNotifier {
	return &NATSNotifier{
		conn: conn,
		log:  logrus.WithField("component", "nats_notifier"),
	}
}

func (n *NATSNotifier) NotifyInvitation(ctx context.Context, playerID, matchName string) error {
	return n.publish(ctx, InvitationSubject(playerID), InvitationEvent(playerID, matchName))
}

func (n *NATSNotifier) NotifyMatchReady(ctx context.Context, matchID string) error {
	return n.publish(ctx, MatchReadySubject(matchID), MatchReadyEvent(matchID))
}

func (n *NATSNotifier) publish(ctx context.Context, subject string, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Kind, err)
	}
	if err := n.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", subject, err)
	}
	n.log.WithField("subject", subject).Debug("published notification")
	return nil
}

// Close drains pending publishes before closing the connection.
func (n *NATSNotifier) Close() error {
	return n.conn.Drain()
}
