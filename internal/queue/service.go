package queue

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"bookmate/internal/shared/config"
	"bookmate/pkg/logger"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrUserInactive  = errors.New("user account is inactive")
)

// EventGate answers whether an event funnels traffic through the queue.
type EventGate interface {
	QueueGated(ctx context.Context, eventID int64) (gated bool, found bool, err error)
}

// UserDirectory answers whether a user may enter the queue at all.
type UserDirectory interface {
	IsActive(ctx context.Context, userID int64) (active bool, found bool, err error)
}

// Service runs the fair admission queue for gated events.
type Service interface {
	// Enter places the user in the queue (or admits them immediately for
	// non-gated events) and reports their current standing.
	Enter(ctx context.Context, eventID, userID int64) (*StatusResponse, error)
	// Status reports the user's standing. Polling is how waiters advance,
	// so Status shares Enter's whole path including enqueue-if-absent.
	Status(ctx context.Context, eventID, userID int64) (*StatusResponse, error)
	// ValidateToken checks an admission token previously minted for the
	// user and event pair.
	ValidateToken(ctx context.Context, eventID, userID int64, token string) (bool, error)
}

type service struct {
	repo          Repository
	events        EventGate
	users         UserDirectory
	batchSize     int
	batchInterval time.Duration
	tokenTTL      time.Duration
}

func NewService(repo Repository, events EventGate, users UserDirectory, cfg config.QueueConfig) Service {
	return &service{
		repo:          repo,
		events:        events,
		users:         users,
		batchSize:     cfg.BatchSize,
		batchInterval: cfg.BatchInterval,
		tokenTTL:      cfg.TokenTTL,
	}
}

func (s *service) Enter(ctx context.Context, eventID, userID int64) (*StatusResponse, error) {
	return s.probe(ctx, eventID, userID)
}

func (s *service) Status(ctx context.Context, eventID, userID int64) (*StatusResponse, error) {
	return s.probe(ctx, eventID, userID)
}

// probe is the single admission path. Every call enqueues the caller if
// they are not already waiting, attempts a batch advance, and either mints
// an admission token or reports position and estimated wait.
func (s *service) probe(ctx context.Context, eventID, userID int64) (*StatusResponse, error) {
	gated, found, err := s.events.QueueGated(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check event gate: %w", err)
	}
	if !found {
		return nil, ErrEventNotFound
	}

	active, found, err := s.users.IsActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user status: %w", err)
	}
	if !found || !active {
		return nil, ErrUserInactive
	}

	if !gated {
		return s.admit(ctx, eventID, userID, 0)
	}

	now := float64(time.Now().UnixNano()) / 1e9

	score, waiting, err := s.repo.WaiterScore(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if !waiting {
		if err := s.repo.AddWaiter(ctx, eventID, userID, now); err != nil {
			return nil, err
		}
		score = now
	}

	cursor, err := s.repo.AdvanceBatch(ctx, eventID, s.batchInterval, s.batchSize, now)
	if err != nil {
		return nil, err
	}

	// Released once the cursor has swept past the enqueue score. Cursor
	// zero means no batch has ever been released.
	if cursor > 0 && score <= cursor {
		return s.admit(ctx, eventID, userID, now)
	}

	total, err := s.repo.WaiterCount(ctx, eventID)
	if err != nil {
		return nil, err
	}

	position := total
	if rank, ok, err := s.repo.WaiterRank(ctx, eventID, userID); err != nil {
		return nil, err
	} else if ok {
		position = rank + 1
	}

	rate := s.recentAdmissionRate(ctx, eventID, now)
	wait := estimateWait(position, s.batchSize, s.batchInterval, rate)

	return &StatusResponse{
		InQueue:           true,
		Position:          &position,
		Total:             total,
		EstimatedWaitTime: &wait,
		BatchSize:         s.batchSize,
		BatchInterval:     int(s.batchInterval.Seconds()),
	}, nil
}

// admit mints an admission token, removes the caller from the waiter set
// and records the admission for rate estimation. A zero now means the
// event is not gated and there is no queue state to touch.
func (s *service) admit(ctx context.Context, eventID, userID int64, now float64) (*StatusResponse, error) {
	token, err := mintToken()
	if err != nil {
		return nil, err
	}
	if err := s.repo.StoreToken(ctx, eventID, userID, token, s.tokenTTL); err != nil {
		return nil, err
	}

	var total int64
	if now > 0 {
		if err := s.repo.RemoveWaiter(ctx, eventID, userID); err != nil {
			return nil, err
		}
		if err := s.repo.RecordAdmission(ctx, eventID, now); err != nil {
			// History only feeds the wait estimate, never block an
			// admission on it.
			logger.GetDefault().WarnContext(ctx, "failed to record queue admission",
				"event_id", eventID, "error", err)
		}
		total, err = s.repo.WaiterCount(ctx, eventID)
		if err != nil {
			return nil, err
		}
	}

	position := int64(0)
	return &StatusResponse{
		InQueue:       false,
		QueueToken:    token,
		Position:      &position,
		Total:         total,
		BatchSize:     s.batchSize,
		BatchInterval: int(s.batchInterval.Seconds()),
	}, nil
}

func (s *service) ValidateToken(ctx context.Context, eventID, userID int64, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	stored, found, err := s.repo.GetToken(ctx, eventID, userID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(token)) == 1, nil
}

// recentAdmissionRate returns admissions per second over the last minute,
// zero when history is empty or unreadable.
func (s *service) recentAdmissionRate(ctx context.Context, eventID int64, now float64) float64 {
	count, err := s.repo.AdmissionsSince(ctx, eventID, now-60, now)
	if err != nil {
		return 0
	}
	return float64(count) / 60.0
}

// estimateWait blends the batch schedule with the observed admission rate.
// The schedule term counts whole batches ahead of the caller; the rate term
// extrapolates from recent throughput. With no observed rate the schedule
// term stands alone.
func estimateWait(position int64, batchSize int, interval time.Duration, recentRate float64) int64 {
	if position < 1 {
		position = 1
	}
	batchesAhead := (position - 1) / int64(batchSize)
	base := batchesAhead * int64(interval.Seconds())

	estimated := base
	if recentRate > 0 {
		byRate := int64(float64(position) / recentRate)
		estimated = int64(float64(base)*0.6 + float64(byRate)*0.4)
	}
	if estimated < 0 {
		estimated = 0
	}
	return estimated
}

// mintToken produces a 32-byte random admission token in URL-safe base64.
func mintToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate queue token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
