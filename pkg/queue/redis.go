// Package queue implements a durable task broker over Redis, shared by all processes
// pointed at the same server. Ready tasks wait in a list, reserved ones move atomically into
// a processing list, retries wait in a sorted set scored by due time and exhausted tasks are
// kept in a failed list. Task payloads live in per-task hashes. Ack, Retry and Bury are
// fenced on the attempt number, so a delivery whose task was redelivered can't change it.
package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/umputun/feedimport/pkg/domain"
)

// promoteBatch limits how many delayed tasks are moved to ready per reservation
const promoteBatch = 100

// promoteScript moves due delayed tasks to the ready list
var promoteScript = redis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, tonumber(ARGV[2]))
for _, id in ipairs(ids) do
	redis.call('ZREM', KEYS[1], id)
	redis.call('LPUSH', KEYS[2], id)
end
return #ids
`)

// reserveScript moves the oldest ready task to processing, counts the delivery and stamps
// the reservation in one step. Returns the id followed by the hash fields, only the id if
// the payload is gone, or nil if the ready list is empty.
var reserveScript = redis.NewScript(`
local id = redis.call('RPOP', KEYS[1])
if not id then
	return false
end
local key = ARGV[2] .. id
if redis.call('EXISTS', key) == 0 then
	return {id}
end
redis.call('LPUSH', KEYS[2], id)
redis.call('HINCRBY', key, 'attempt', 1)
redis.call('HSET', key, 'reserved_at', ARGV[1])
local res = redis.call('HGETALL', key)
table.insert(res, 1, id)
return res
`)

// requeueScript returns tasks reserved before the cutoff to the head of the ready list.
// An entry without reserved_at has no owner and is requeued as well.
var requeueScript = redis.NewScript(`
local ids = redis.call('LRANGE', KEYS[1], 0, -1)
local n = 0
for _, id in ipairs(ids) do
	local at = redis.call('HGET', ARGV[2] .. id, 'reserved_at')
	if (not at) or tonumber(at) <= tonumber(ARGV[1]) then
		if redis.call('LREM', KEYS[1], 1, id) > 0 then
			redis.call('HDEL', ARGV[2] .. id, 'reserved_at')
			redis.call('RPUSH', KEYS[2], id)
			n = n + 1
		end
	end
end
return n
`)

// fenceLua releases the reservation of KEYS[2] (task ARGV[1]) from the processing list KEYS[1]
// if it is still held by attempt ARGV[2], returns 0 otherwise
const fenceLua = `
if redis.call('HGET', KEYS[2], 'attempt') ~= ARGV[2] then
	return 0
end
if redis.call('LREM', KEYS[1], 1, ARGV[1]) == 0 then
	return 0
end
`

var ackScript = redis.NewScript(fenceLua + `
redis.call('DEL', KEYS[2])
return 1
`)

// retryScript parks the task in the delayed set KEYS[3] with score ARGV[4]
var retryScript = redis.NewScript(fenceLua + `
redis.call('HSET', KEYS[2], 'last_error', ARGV[3])
redis.call('HDEL', KEYS[2], 'reserved_at')
redis.call('ZADD', KEYS[3], ARGV[4], ARGV[1])
return 1
`)

// buryScript moves the task to the failed list KEYS[3]
var buryScript = redis.NewScript(fenceLua + `
redis.call('HSET', KEYS[2], 'last_error', ARGV[3])
redis.call('HDEL', KEYS[2], 'reserved_at')
redis.call('LPUSH', KEYS[3], ARGV[1])
return 1
`)

// Redis is a task broker backed by redis lists, hashes and a sorted set
type Redis struct {
	client       redis.UniversalClient
	prefix       string
	now          func() time.Time
	pollInterval time.Duration
}

// NewRedisClient parses redisURL and verifies connectivity
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewRedis makes a broker storing its keys under the queue name.
// The name is wrapped in a hash tag so all keys of one queue share a cluster slot.
func NewRedis(client redis.UniversalClient, name string) *Redis {
	if name == "" {
		name = "feedimport"
	}
	return &Redis{client: client, prefix: "{" + name + "}", now: time.Now, pollInterval: 100 * time.Millisecond}
}

func (q *Redis) readyKey() string      { return q.prefix + ":ready" }
func (q *Redis) processingKey() string { return q.prefix + ":processing" }
func (q *Redis) delayedKey() string    { return q.prefix + ":delayed" }
func (q *Redis) failedKey() string     { return q.prefix + ":failed" }
func (q *Redis) taskPrefix() string    { return q.prefix + ":task:" }
func (q *Redis) taskKey(id string) string {
	return q.taskPrefix() + id
}

// Push stores the task payload and appends it to the ready list
func (q *Redis) Push(ctx context.Context, task domain.Task) (string, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.MaxAttempts < 1 {
		task.MaxAttempts = 1
	}

	pipe := q.client.TxPipeline()
	pipe.HSet(ctx, q.taskKey(task.ID), map[string]interface{}{
		"import_id":    task.ImportID,
		"feed_url":     task.FeedURL,
		"category":     task.Category,
		"attempt":      0,
		"max_attempts": task.MaxAttempts,
		"last_error":   "",
		"created_at":   q.now().UnixMilli(),
	})
	pipe.LPush(ctx, q.readyKey(), task.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("push task: %w", err)
	}
	return task.ID, nil
}

// Reserve promotes due retries and takes the oldest ready task, polling until wait elapses.
// Returns domain.ErrNoTask if nothing became ready in time.
func (q *Redis) Reserve(ctx context.Context, wait time.Duration) (*domain.Task, error) {
	deadline := time.Now().Add(wait)
	for {
		task, err := q.reserveOne(ctx)
		if err == nil {
			return task, nil
		}
		if !errors.Is(err, domain.ErrNoTask) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, err
		}
		if !time.Now().Before(deadline) {
			return nil, domain.ErrNoTask
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(q.pollInterval):
		}
	}
}

func (q *Redis) reserveOne(ctx context.Context) (*domain.Task, error) {
	if err := q.promoteDue(ctx); err != nil {
		return nil, err
	}

	keys := []string{q.readyKey(), q.processingKey()}
	res, err := reserveScript.Run(ctx, q.client, keys, q.now().UnixMilli(), q.taskPrefix()).StringSlice()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNoTask
	}
	if err != nil {
		return nil, fmt.Errorf("reserve task: %w", err)
	}
	if len(res) == 0 {
		return nil, domain.ErrNoTask
	}

	id := res[0]
	fields := make(map[string]string, len(res)/2)
	for i := 1; i+1 < len(res); i += 2 {
		fields[res[i]] = res[i+1]
	}
	task, err := q.decode(id, fields)
	if err != nil {
		// payload is gone or broken, drop the reference so it doesn't block the queue
		lgr.Printf("[WARN] dropping task %s: %v", id, err)
		pipe := q.client.TxPipeline()
		pipe.LRem(ctx, q.processingKey(), 1, id)
		pipe.Del(ctx, q.taskKey(id))
		if _, derr := pipe.Exec(ctx); derr != nil {
			lgr.Printf("[WARN] failed to drop task %s: %v", id, derr)
		}
		return nil, domain.ErrNoTask
	}
	return task, nil
}

// promoteDue moves delayed tasks whose time has come into the ready list
func (q *Redis) promoteDue(ctx context.Context) error {
	keys := []string{q.delayedKey(), q.readyKey()}
	n, err := promoteScript.Run(ctx, q.client, keys, q.now().UnixMilli(), promoteBatch).Int()
	if err != nil {
		return fmt.Errorf("promote delayed tasks: %w", err)
	}
	if n > 0 {
		lgr.Printf("[DEBUG] promoted %d delayed tasks", n)
	}
	return nil
}

// Ack removes a finished task together with its payload
func (q *Redis) Ack(ctx context.Context, task domain.Task) error {
	if err := q.release(ctx, ackScript, task, ""); err != nil {
		return fmt.Errorf("ack task %s: %w", task.ID, err)
	}
	return nil
}

// Retry moves a reserved task into the delayed set, due after delay
func (q *Redis) Retry(ctx context.Context, task domain.Task, delay time.Duration, reason string) error {
	due := q.now().Add(delay).UnixMilli()
	if err := q.release(ctx, retryScript, task, q.delayedKey(), reason, due); err != nil {
		return fmt.Errorf("retry task %s: %w", task.ID, err)
	}
	return nil
}

// Bury moves a reserved task into the failed list, payload kept for inspection
func (q *Redis) Bury(ctx context.Context, task domain.Task, reason string) error {
	if err := q.release(ctx, buryScript, task, q.failedKey(), reason); err != nil {
		return fmt.Errorf("bury task %s: %w", task.ID, err)
	}
	return nil
}

// release runs a fenced script for the task's reservation, domain.ErrReservationLost
// if the task was redelivered or is not reserved anymore
func (q *Redis) release(ctx context.Context, script *redis.Script, task domain.Task, target string, args ...interface{}) error {
	keys := []string{q.processingKey(), q.taskKey(task.ID), target}
	if target == "" {
		keys = keys[:2]
	}
	argv := append([]interface{}{task.ID, strconv.Itoa(task.Attempt)}, args...)
	n, err := script.Run(ctx, q.client, keys, argv...).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrReservationLost
	}
	return nil
}

// RequeueStale returns tasks reserved longer than olderThan to the ready list
func (q *Redis) RequeueStale(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := q.now().Add(-olderThan).UnixMilli()
	keys := []string{q.processingKey(), q.readyKey()}
	n, err := requeueScript.Run(ctx, q.client, keys, cutoff, q.taskPrefix()).Int()
	if err != nil {
		return 0, fmt.Errorf("requeue stale tasks: %w", err)
	}
	return n, nil
}

// Stats returns lengths of the queue structures
func (q *Redis) Stats(ctx context.Context) (domain.QueueStats, error) {
	pipe := q.client.Pipeline()
	ready := pipe.LLen(ctx, q.readyKey())
	delayed := pipe.ZCard(ctx, q.delayedKey())
	processing := pipe.LLen(ctx, q.processingKey())
	failed := pipe.LLen(ctx, q.failedKey())
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.QueueStats{}, fmt.Errorf("queue stats: %w", err)
	}
	return domain.QueueStats{
		Ready:      int(ready.Val()),
		Delayed:    int(delayed.Val()),
		Processing: int(processing.Val()),
		Failed:     int(failed.Val()),
	}, nil
}

// Failed returns up to limit buried tasks, most recent first
func (q *Redis) Failed(ctx context.Context, limit int) ([]domain.Task, error) {
	if limit <= 0 {
		limit = 50
	}
	ids, err := q.client.LRange(ctx, q.failedKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list failed tasks: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Task{}, nil
	}

	pipe := q.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, q.taskKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("load failed tasks: %w", err)
	}

	res := make([]domain.Task, 0, len(ids))
	for i, id := range ids {
		task, err := q.decode(id, cmds[i].Val())
		if err != nil {
			lgr.Printf("[DEBUG] skip failed task %s: %v", id, err)
			continue
		}
		res = append(res, *task)
	}
	return res, nil
}

// decode builds a task from its hash fields
func (q *Redis) decode(id string, fields map[string]string) (*domain.Task, error) {
	if fields["import_id"] == "" {
		return nil, errors.New("task payload missing")
	}
	atoi := func(key string) int {
		v, _ := strconv.Atoi(fields[key])
		return v
	}
	createdMs, _ := strconv.ParseInt(fields["created_at"], 10, 64)
	return &domain.Task{
		ID:          id,
		ImportID:    fields["import_id"],
		FeedURL:     fields["feed_url"],
		Category:    fields["category"],
		Attempt:     atoi("attempt"),
		MaxAttempts: atoi("max_attempts"),
		LastError:   fields["last_error"],
		CreatedAt:   time.UnixMilli(createdMs).UTC(),
	}, nil
}
