package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"matchmate/models"
	"matchmate/notify"
	"matchmate/store"
	"matchmate/utils"
)

const (
	writeWait  = 10 * time.Second
	feedBuffer = 16
)

// lockedConn serializes writes; websocket connections allow one writer.
type lockedConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (l *lockedConn) WriteJSON(v interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return l.conn.WriteJSON(v)
}

var errSlowClient = errors.New("feed client fell behind")

// matchStream queues match changes for one feed client. push never blocks:
// a client that lets the queue fill up is cut off.
type matchStream struct {
	changes chan *models.Match
	overrun chan struct{}
	once    sync.Once
}

func newMatchStream(size int) *matchStream {
	return &matchStream{
		changes: make(chan *models.Match, size),
		overrun: make(chan struct{}),
	}
}

func (s *matchStream) push(m *models.Match) {
	select {
	case s.changes <- m:
	default:
		s.once.Do(func() { close(s.overrun) })
	}
}

// pump writes queued changes to out until ctx ends, a write fails or the
// queue overflows.
func (s *matchStream) pump(ctx context.Context, out notify.Sink) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.overrun:
			return errSlowClient
		case m := <-s.changes:
			if err := out.WriteJSON(NewMatchView(m)); err != nil {
				return err
			}
		}
	}
}

type LiveController struct {
	Repo store.Repository
	Hub  *notify.Hub
	log  *logrus.Entry
}

func NewLiveController(repo store.Repository, hub *notify.Hub) *LiveController {
	return &LiveController{
		Repo: repo,
		Hub:  hub,
		log:  logrus.WithField("component", "live"),
	}
}

// UpgradeOnly rejects plain HTTP requests on websocket routes.
func UpgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleMatchFeed streams the match, then every change to it, until the
// client disconnects or stops keeping up.
func (lc *LiveController) HandleMatchFeed(c *websocket.Conn) {
	defer c.Close()

	matchID := c.Params("id")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &lockedConn{conn: c}
	stream := newMatchStream(feedBuffer)
	unsubscribe, err := lc.Repo.Subscribe(ctx, matchID, stream.push)
	if err != nil {
		status, message := StatusFor(err)
		if status == fiber.StatusInternalServerError {
			utils.LogError("match_feed_subscribe_failed", err, map[string]interface{}{"match_id": matchID})
		}
		_ = out.WriteJSON(fiber.Map{"success": false, "error": message})
		return
	}

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		lc.readUntilClosed(ctx, c)
		cancel()
	}()

	if err := stream.pump(ctx, out); err != nil && !errors.Is(err, context.Canceled) {
		lc.log.WithError(err).WithField("match_id", matchID).Debug("closing match feed")
	}

	// Closing unblocks the reader; the connection must not be touched
	// after this handler returns.
	unsubscribe()
	_ = c.Close()
	<-readDone
}

// HandleNotifications attaches the connection to the notification hub for
// the player named in the playerId query parameter.
func (lc *LiveController) HandleNotifications(c *websocket.Conn) {
	defer c.Close()

	id, ok := utils.ParseUint(c.Query("playerId"))
	if !ok {
		_ = c.WriteJSON(fiber.Map{"success": false, "error": "Invalid player id"})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if _, err := lc.Repo.GetUser(ctx, id); err != nil {
		_, message := StatusFor(err)
		_ = c.WriteJSON(fiber.Map{"success": false, "error": message})
		return
	}

	release := lc.Hub.Register(utils.FormatID(id), &lockedConn{conn: c})
	defer release()

	lc.readUntilClosed(ctx, c)
}

// readUntilClosed drains client frames so close and ping frames are handled.
func (lc *LiveController) readUntilClosed(ctx context.Context, c *websocket.Conn) {
	for ctx.Err() == nil {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
