// Package notify delivers invitation and match readiness notices.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// Kinds of notification events.
const (
	KindInvitation = "invitation"
	KindMatchReady = "match_ready"
)

// Event is the payload published for every notification.
type Event struct {
	Kind      string    `json:"kind"`
	PlayerID  string    `json:"playerId,omitempty"`
	MatchID   string    `json:"matchId,omitempty"`
	MatchName string    `json:"matchName,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sentAt"`
}

// InvitationEvent builds the notice shown to an invited player.
func InvitationEvent(playerID, matchName string) Event {
	return Event{
		Kind:      KindInvitation,
		PlayerID:  playerID,
		MatchName: matchName,
		Title:     "New Match Invitation!",
		Body:      "You've been invited to " + matchName,
		SentAt:    time.Now().UTC(),
	}
}

// MatchReadyEvent builds the notice sent when both teams are staffed.
func MatchReadyEvent(matchID string) Event {
	return Event{
		Kind:    KindMatchReady,
		MatchID: matchID,
		Title:   "Match is ready!",
		Body:    "Both teams are full. See you on the pitch.",
		SentAt:  time.Now().UTC(),
	}
}

// Notifier is registered once per process and closed on shutdown.
type Notifier interface {
	NotifyInvitation(ctx context.Context, playerID, matchName string) error
	NotifyMatchReady(ctx context.Context, matchID string) error
	Close() error
}

// Multi fans every notification out to all notifiers and joins their errors.
type Multi []Notifier

func (m Multi) NotifyInvitation(ctx context.Context, playerID, matchName string) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyInvitation(ctx, playerID, matchName); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) NotifyMatchReady(ctx context.Context, matchID string) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyMatchReady(ctx, matchID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, n := range m {
		if err := n.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes every notification to the log.
type LogNotifier struct {
	log *logrus.Entry
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logrus.WithField("component", "notifier")}
}

func (l *LogNotifier) NotifyInvitation(_ context.Context, playerID, matchName string) error {
	l.log.WithFields(logrus.Fields{
		"player_id":  playerID,
		"match_name": matchName,
	}).Info("invitation notice")
	return nil
}

func (l *LogNotifier) NotifyMatchReady(_ context.Context, matchID string) error {
	l.log.WithField("match_id", matchID).Info("match ready notice")
	return nil
}

func (l *LogNotifier) Close() error { return nil }
