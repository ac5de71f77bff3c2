package redis

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/honeycarbs/review-search/internal/domain/search"
)

const (
	keyPrefix  = "search:params:"
	DefaultTTL = 7 * 24 * time.Hour
)

// ErrShareNotFound is returned when a share ID is unknown or expired
var ErrShareNotFound = errors.New("search share not found")

// kv is the subset of the Redis client the store needs
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// ShareStore keeps query parameters of search sessions under shareable IDs
type ShareStore struct {
	rdb kv
	ttl time.Duration
}

// NewShareStore creates a ShareStore. A non-positive ttl uses DefaultTTL.
func NewShareStore(rdb kv, ttl time.Duration) *ShareStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ShareStore{rdb: rdb, ttl: ttl}
}

// Share stores values under a new ID
func (s *ShareStore) Share(ctx context.Context, values url.Values) (string, error) {
	id := uuid.NewString()
	if err := s.save(ctx, id, values); err != nil {
		return "", err
	}
	return id, nil
}

// Resume loads the values stored under id
func (s *ShareStore) Resume(ctx context.Context, id string) (url.Values, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrShareNotFound, id)
	}

	raw, err := s.rdb.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %q", ErrShareNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", id, err)
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("decode shared params %s: %w", id, err)
	}
	return values, nil
}

// Bind returns a search.ParamStore writing through to id. The engine saves
// into it on every new search so the shared link follows the session.
func (s *ShareStore) Bind(id string) search.ParamStore {
	return &boundStore{store: s, id: id}
}

func (s *ShareStore) save(ctx context.Context, id string, values url.Values) error {
	if err := s.rdb.Set(ctx, keyPrefix+id, values.Encode(), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", id, err)
	}
	return nil
}

type boundStore struct {
	store *ShareStore
	id    string
}

func (b *boundStore) Load(ctx context.Context) (url.Values, error) {
	values, err := b.store.Resume(ctx, b.id)
	if errors.Is(err, ErrShareNotFound) {
		return url.Values{}, nil
	}
	return values, err
}

func (b *boundStore) Save(ctx context.Context, values url.Values) error {
	return b.store.save(ctx, b.id, values)
}
