package notify

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Sink is a connected client that accepts JSON messages, typically a
// websocket connection.
type Sink interface {
	WriteJSON(v interface{}) error
}

// RosterResolver returns the ids of the players holding slots in a match.
type RosterResolver func(ctx context.Context, matchID string) ([]string, error)

// Hub delivers notifications to players connected to the in-app channel.
// Players without a live connection are skipped. Delivery is best effort:
// a sink that fails a write is logged and dropped, and callers never see
// the error.
type Hub struct {
	mu      sync.Mutex
	sinks   map[string]map[Sink]struct{}
	resolve RosterResolver
	log     *logrus.Entry
	closed  bool
}

func NewHub(resolve RosterResolver) *Hub {
	return &Hub{
		sinks:   make(map[string]map[Sink]struct{}),
		resolve: resolve,
		log:     logrus.WithField("component", "notify_hub"),
	}
}

// Register attaches a sink for a player and returns its release func.
func (h *Hub) Register(playerID string, s Sink) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sinks[playerID] == nil {
		h.sinks[playerID] = make(map[Sink]struct{})
	}
	h.sinks[playerID][s] = struct{}{}

	return func() { h.drop(playerID, s) }
}

// Connected reports how many sinks a player has.
func (h *Hub) Connected(playerID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sinks[playerID])
}

func (h *Hub) NotifyInvitation(_ context.Context, playerID, matchName string) error {
	h.send(playerID, InvitationEvent(playerID, matchName))
	return nil
}

func (h *Hub) NotifyMatchReady(ctx context.Context, matchID string) error {
	if h.resolve == nil {
		return nil
	}
	playerIDs, err := h.resolve(ctx, matchID)
	if err != nil {
		h.log.WithError(err).WithField("match_id", matchID).Warn("resolve roster for readiness notice")
		return nil
	}

	for _, id := range playerIDs {
		ev := MatchReadyEvent(matchID)
		ev.PlayerID = id
		h.send(id, ev)
	}
	return nil
}

func (h *Hub) send(playerID string, ev Event) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	targets := make([]Sink, 0, len(h.sinks[playerID]))
	for s := range h.sinks[playerID] {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	for _, s := range targets {
		if err := s.WriteJSON(ev); err != nil {
			h.log.WithError(err).WithFields(logrus.Fields{
				"player_id": playerID,
				"kind":      ev.Kind,
			}).Warn("notification write failed, dropping connection")
			h.drop(playerID, s)
		}
	}
}

func (h *Hub) drop(playerID string, s Sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sinks[playerID], s)
	if len(h.sinks[playerID]) == 0 {
		delete(h.sinks, playerID)
	}
}

func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.sinks = make(map[string]map[Sink]struct{})
	return nil
}
