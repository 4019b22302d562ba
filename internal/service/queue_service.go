package service

import (
	"context"
	"fmt"
	"time"

	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// QueueTicketer hands out waiting room queue numbers per clinic and day.
// Numbers increase monotonically and are never reused, even after a cancel.
type QueueTicketer interface {
	NextTicket(ctx context.Context, tx *gorm.DB, clinicID uint, day time.Time) (int, error)
}

// nextTicketScript increments the day counter but never returns a number at or
// below the floor read from the database, so a lost or expired key cannot
// reissue a ticket.
//
// KEYS[1] = queue key, ARGV[1] = floor, ARGV[2] = ttl seconds
var nextTicketScript = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	local floor = tonumber(ARGV[1])
	if current <= floor then
		current = floor + 1
		redis.call('SET', KEYS[1], current)
	end
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[2]))
	return current
`)

const (
	RedisWaitingQueueKeyPrefix = "waiting_room:queue:"

	// Batch size for startup sync
	syncBatchSize = 500
)

// RedisQueueService keeps the waiting room counters in Redis and re-seeds them
// from the database on startup.
type RedisQueueService struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
	waitingRepo repository.WaitingRoomRepository
	metrics     *Metrics
}

func NewRedisQueueService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, waitingRepo repository.WaitingRoomRepository, metrics *Metrics) *RedisQueueService {
	return &RedisQueueService{
		db:          db,
		redisClient: redisClient,
		log:         log,
		waitingRepo: waitingRepo,
		metrics:     metrics,
	}
}

// QueueKey returns the Redis key of a clinic's queue on a day.
func QueueKey(clinicID uint, day time.Time) string {
	return fmt.Sprintf("%s%d:%s", RedisWaitingQueueKeyPrefix, clinicID, entity.QueueDay(day).Format("2006-01-02"))
}

// NextTicket runs the increment script with the current database maximum as
// the floor. The floor is read on tx so it sees rows of the caller's
// transaction.
func (s *RedisQueueService) NextTicket(ctx context.Context, tx *gorm.DB, clinicID uint, day time.Time) (int, error) {
	floor, err := s.waitingRepo.MaxQueueNumber(ctx, tx, clinicID, day)
	if err != nil {
		s.log.Warnf("Failed to read queue floor for clinic %d: %+v", clinicID, err)
		return 0, fmt.Errorf("read queue floor for clinic %d: %w", clinicID, err)
	}

	key := QueueKey(clinicID, day)
	ttl := int(calculateTTL(entity.QueueDay(day)).Seconds())

	ticket, err := nextTicketScript.Run(ctx, s.redisClient, []string{key}, floor, ttl).Int()
	if err != nil {
		s.log.Warnf("Failed Lua script NextTicket for clinic %d: %+v", clinicID, err)
		return 0, fmt.Errorf("lua next_ticket for clinic %d: %w", clinicID, err)
	}

	s.metrics.ObserveQueueTicket()
	s.log.Debugf("Issued queue ticket for clinic %d: queue_number=%d", clinicID, ticket)
	return ticket, nil
}

// SyncOnStartup writes MAX(queue_number) of today's queues into Redis.
// Should be called before accepting traffic.
func (s *RedisQueueService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Starting Redis queue re-sync from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	highWaters, err := s.waitingRepo.MaxQueueNumbers(ctx, s.db, time.Now())
	if err != nil {
		s.log.Errorf("Failed to query queue high-water marks: %+v", err)
		return fmt.Errorf("query queue high-water marks: %w", err)
	}

	if len(highWaters) == 0 {
		s.log.Info("No active queues found for sync")
		return nil
	}

	for start := 0; start < len(highWaters); start += syncBatchSize {
		end := start + syncBatchSize
		if end > len(highWaters) {
			end = len(highWaters)
		}
		batch := highWaters[start:end]

		// New pipeline per batch
		pipe := s.redisClient.TxPipeline()
		for _, hw := range batch {
			pipe.Set(ctx, QueueKey(hw.ClinicID, hw.QueueDate), hw.MaxQueueNumber, calculateTTL(entity.QueueDay(hw.QueueDate)))
		}

		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", start, err)
			return fmt.Errorf("pipeline exec at offset %d: %w", start, err)
		}
		s.log.Debugf("Synced batch: %d queues", len(batch))

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Redis queue re-sync completed: %d queues synced in %v", len(highWaters), time.Since(startTime))
	return nil
}

// DatabaseQueueTicketer derives the next number from the table alone. It is
// used when no Redis is configured; the unique index on (clinic, day, number)
// rejects a concurrent duplicate and the caller retries.
type DatabaseQueueTicketer struct {
	log         *logrus.Logger
	waitingRepo repository.WaitingRoomRepository
	metrics     *Metrics
}

func NewDatabaseQueueTicketer(log *logrus.Logger, waitingRepo repository.WaitingRoomRepository, metrics *Metrics) *DatabaseQueueTicketer {
	return &DatabaseQueueTicketer{
		log:         log,
		waitingRepo: waitingRepo,
		metrics:     metrics,
	}
}

func (t *DatabaseQueueTicketer) NextTicket(ctx context.Context, tx *gorm.DB, clinicID uint, day time.Time) (int, error) {
	max, err := t.waitingRepo.MaxQueueNumber(ctx, tx, clinicID, day)
	if err != nil {
		t.log.Warnf("Failed to read queue high-water for clinic %d: %+v", clinicID, err)
		return 0, fmt.Errorf("read queue high-water for clinic %d: %w", clinicID, err)
	}
	t.metrics.ObserveQueueTicket()
	return max + 1, nil
}

// calculateTTL keeps the key until one day after the queue day ends
func calculateTTL(day time.Time) time.Duration {
	expireAt := day.AddDate(0, 0, 2)
	ttl := time.Until(expireAt)

	if ttl <= 0 {
		// Past date - short TTL for cleanup
		return 1 * time.Minute
	}

	return ttl
}
