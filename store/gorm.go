package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"matchmate/feed"
	"matchmate/models"
	"matchmate/squad"
)

// GormRepository is the Repository backed by a gorm database. Every
// successful match write is published on the feed.
type GormRepository struct {
	db   *gorm.DB
	feed feed.Broker
	log  *logrus.Entry
}

func NewGormRepository(db *gorm.DB, broker feed.Broker) *GormRepository {
	return &GormRepository{
		db:   db,
		feed: broker,
		log:  logrus.WithField("component", "store"),
	}
}

func (r *GormRepository) GetMatch(ctx context.Context, id string) (*models.Match, error) {
	var m models.Match
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, squad.ErrMatchNotFound
		}
		return nil, fmt.Errorf("get match %s: %w", id, err)
	}
	return &m, nil
}

func (r *GormRepository) CreateMatch(ctx context.Context, m *models.Match) error {
	if len(m.Players) != squad.RosterSize {
		return fmt.Errorf("create match %s: roster has %d slots", m.ID, len(m.Players))
	}
	m.Version = 1
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create match %s: %w", m.ID, err)
	}
	r.publish(ctx, m)
	return nil
}

func (r *GormRepository) SaveMatch(ctx context.Context, m *models.Match) error {
	next := m.Version + 1
	res := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("id = ? AND version = ?", m.ID, m.Version).
		Updates(map[string]interface{}{
			"name":           m.Name,
			"date":           m.Date,
			"time":           m.Time,
			"city":           m.City,
			"district":       m.District,
			"latitude":       m.Latitude,
			"longitude":      m.Longitude,
			"description":    m.Description,
			"players":        m.Players,
			"player_count":   m.PlayerCount,
			"status":         m.Status,
			"cancelled":      m.Cancelled,
			"ready_notified": m.ReadyNotified,
			"version":        next,
		})
	if res.Error != nil {
		return fmt.Errorf("save match %s: %w", m.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return r.missingOrConflict(ctx, &models.Match{}, "id = ?", m.ID, squad.ErrMatchNotFound)
	}

	m.Version = next
	r.publish(ctx, m)
	return nil
}

func (r *GormRepository) ListMatches(ctx context.Context, q MatchQuery) ([]models.Match, error) {
	tx := r.db.WithContext(ctx).Model(&models.Match{}).Where("cancelled = ?", false)
	if q.City != "" {
		tx = tx.Where("LOWER(city) = LOWER(?)", q.City)
	}
	if q.District != "" {
		tx = tx.Where("LOWER(district) = LOWER(?)", q.District)
	}
	if q.OpenOnly {
		tx = tx.Where("status = ?", false)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var matches []models.Match
	if err := tx.Order("created_at DESC").Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

func (r *GormRepository) ListMatchesByID(ctx context.Context, ids []string) ([]models.Match, error) {
	if len(ids) == 0 {
		return []models.Match{}, nil
	}
	var matches []models.Match
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("created_at DESC").Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("list matches by id: %w", err)
	}
	return matches, nil
}

func (r *GormRepository) ListReadyUnnotified(ctx context.Context, limit int) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Where("status = ? AND ready_notified = ? AND cancelled = ?", true, false, false).
		Order("updated_at").
		Limit(limit).
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("list ready matches: %w", err)
	}
	return matches, nil
}

// MarkReadyNotified flags a full match as announced. The version guard
// keeps a match that reopened in the meantime eligible for a new notice.
func (r *GormRepository) MarkReadyNotified(ctx context.Context, id string, version int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("id = ? AND version = ? AND status = ?", id, version, true).
		Update("ready_notified", true)
	if res.Error != nil {
		return fmt.Errorf("mark match %s notified: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return squad.ErrConflict
	}
	return nil
}

func (r *GormRepository) Subscribe(ctx context.Context, id string, onChange func(*models.Match)) (func(), error) {
	// Changes can race the initial read, so deliveries are ordered by
	// version and anything not newer than the last delivery is dropped.
	var (
		mu   sync.Mutex
		last int
	)
	deliver := func(m *models.Match) {
		mu.Lock()
		defer mu.Unlock()
		if m.Version <= last {
			return
		}
		last = m.Version
		onChange(m)
	}

	cancel, err := r.feed.Subscribe(ctx, id, func(payload []byte) {
		var m models.Match
		if err := json.Unmarshal(payload, &m); err != nil {
			r.log.WithError(err).WithField("match_id", id).Warn("dropping undecodable match change")
			return
		}
		deliver(&m)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe match %s: %w", id, err)
	}

	current, err := r.GetMatch(ctx, id)
	if err != nil {
		cancel()
		return nil, err
	}
	deliver(current)
	return cancel, nil
}

func (r *GormRepository) GetUser(ctx context.Context, playerID uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "player_id = ?", playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, squad.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", playerID, err)
	}
	return &u, nil
}

// CreateUser allocates the next sequential player id and stores the
// profile in the same transaction.
func (r *GormRepository) CreateUser(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := nextPlayerID(tx)
		if err != nil {
			return err
		}
		u.PlayerID = id
		u.Version = 1
		if u.JoinedMatch == nil {
			u.JoinedMatch = squad.IDSet{}
		}
		if u.WaitedMatch == nil {
			u.WaitedMatch = squad.IDSet{}
		}
		if err := tx.Create(u).Error; err != nil {
			return fmt.Errorf("create user %d: %w", id, err)
		}
		return nil
	})
}

func nextPlayerID(tx *gorm.DB) (uint, error) {
	if err := models.CreateDefaultCounters(tx); err != nil {
		return 0, fmt.Errorf("seed counters: %w", err)
	}

	// Incrementing first takes the row lock, so concurrent allocations
	// serialize on it until commit.
	res := tx.Model(&models.Counter{}).
		Where("name = ?", models.PlayerIDCounter).
		Update("current_id", gorm.Expr("current_id + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("increment player id counter: %w", res.Error)
	}

	var c models.Counter
	if err := tx.First(&c, "name = ?", models.PlayerIDCounter).Error; err != nil {
		return 0, fmt.Errorf("read player id counter: %w", err)
	}
	return c.CurrentID - 1, nil
}

func (r *GormRepository) SaveUser(ctx context.Context, u *models.User) error {
	next := u.Version + 1
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("player_id = ? AND version = ?", u.PlayerID, u.Version).
		Updates(map[string]interface{}{
			"name":         u.Name,
			"surname":      u.Surname,
			"city":         u.City,
			"district":     u.District,
			"position":     u.Position,
			"about":        u.About,
			"email":        u.Email,
			"is_available": u.IsAvailable,
			"joined_match": u.JoinedMatch,
			"waited_match": u.WaitedMatch,
			"invited_by":   u.InvitedBy,
			"version":      next,
		})
	if res.Error != nil {
		return fmt.Errorf("save user %d: %w", u.PlayerID, res.Error)
	}
	if res.RowsAffected == 0 {
		return r.missingOrConflict(ctx, &models.User{}, "player_id = ?", u.PlayerID, squad.ErrProfileNotFound)
	}
	u.Version = next
	return nil
}

func (r *GormRepository) ListAvailablePlayers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("is_available = ?", true).Order("player_id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list available players: %w", err)
	}
	return users, nil
}

// missingOrConflict tells a vanished document from a lost version race.
func (r *GormRepository) missingOrConflict(ctx context.Context, model interface{}, where string, key interface{}, notFound error) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(model).Where(where, key).Count(&n).Error; err != nil {
		return fmt.Errorf("check existence: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return squad.ErrConflict
}

func (r *GormRepository) publish(ctx context.Context, m *models.Match) {
	if r.feed == nil {
		return
	}
	payload, err := json.Marshal(m)
	if err != nil {
		r.log.WithError(err).WithField("match_id", m.ID).Error("encode match change")
		return
	}
	if err := r.feed.Publish(ctx, m.ID, payload); err != nil {
		r.log.WithError(err).WithField("match_id", m.ID).Warn("publish match change")
	}
}
