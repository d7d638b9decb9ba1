package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doctor-connect/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Errors
// =============================================================================

// ErrSlotLocked is returned when another request is booking the same slot
var ErrSlotLocked = errors.New("slot is being booked by another request")

// releaseLockScript deletes the lock only if it still holds our token.
// A lock that expired and was taken by another request is left alone.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// =============================================================================
// Constants
// =============================================================================

const (
	RedisSlotLockKeyPrefix = "slot:lock:"

	// Timeout for individual Redis operations
	slotLockTimeout = 2 * time.Second

	// Pause between attempts while another request holds the lock
	slotLockRetryInterval = 25 * time.Millisecond
)

// =============================================================================
// Types
// =============================================================================

// SlotLocker serializes booking attempts for the same (doctor, date, time).
type SlotLocker interface {
	// Acquire returns a token identifying the holder, or ErrSlotLocked when
	// the lock stays taken for the whole wait.
	Acquire(ctx context.Context, slot entity.Slot) (string, error)
	Release(ctx context.Context, slot entity.Slot, token string) error
}

// SlotLockService implements SlotLocker with SET NX PX on a per-slot key.
// The lock only shortens the race window; the unique index on appointments
// stays the final authority.
type SlotLockService struct {
	redisClient redis.Cmdable
	log         *logrus.Logger
	ttl         time.Duration
}

func NewSlotLockService(redisClient redis.Cmdable, log *logrus.Logger, ttl time.Duration) *SlotLockService {
	return &SlotLockService{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

// =============================================================================
// Public Methods
// =============================================================================

// Acquire polls until the lock is free or one TTL has passed, which is the
// longest a healthy holder can keep it.
func (s *SlotLockService) Acquire(ctx context.Context, slot entity.Slot) (string, error) {
	token := uuid.New().String()
	deadline := time.Now().Add(s.ttl)

	for {
		ok, err := s.trySet(ctx, slot, token)
		if err != nil {
			return "", fmt.Errorf("acquire slot lock %s: %w", slot, err)
		}
		if ok {
			s.log.Debugf("Acquired slot lock %s", slot)
			return token, nil
		}
		if time.Now().Add(slotLockRetryInterval).After(deadline) {
			return "", ErrSlotLocked
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(slotLockRetryInterval):
		}
	}
}

func (s *SlotLockService) Release(ctx context.Context, slot entity.Slot, token string) error {
	if token == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, slotLockTimeout)
	defer cancel()

	deleted, err := releaseLockScript.Run(ctx, s.redisClient, []string{SlotLockKey(slot)}, token).Int()
	if err != nil {
		return fmt.Errorf("release slot lock %s: %w", slot, err)
	}
	if deleted == 0 {
		s.log.Warnf("Slot lock %s expired before release", slot)
	}
	return nil
}

// =============================================================================
// Helper Methods
// =============================================================================

func (s *SlotLockService) trySet(ctx context.Context, slot entity.Slot, token string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, slotLockTimeout)
	defer cancel()
	return s.redisClient.SetNX(ctx, SlotLockKey(slot), token, s.ttl).Result()
}

// SlotLockKey builds the Redis key for a slot: slot:lock:{doctorId}:{date}:{time}
func SlotLockKey(slot entity.Slot) string {
	return RedisSlotLockKeyPrefix + slot.String()
}
