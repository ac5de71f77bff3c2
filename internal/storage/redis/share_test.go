package redis

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/review-search/internal/domain"
	"github.com/honeycarbs/review-search/internal/domain/search"
)

type fakeKV struct {
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	setErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeKV) Set(_ context.Context, key string, value any, exp time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = value.(string)
	f.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func TestShareAndResume(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store := NewShareStore(kv, time.Hour)

	values := search.EncodeQuery(domain.Query{Text: "intern", Type: domain.SearchJobs, Rating: domain.NewRange(3, 5)})
	id, err := store.Share(ctx, values)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)
	require.Equal(t, time.Hour, kv.ttls[keyPrefix+id])

	got, err := store.Resume(ctx, id)
	require.NoError(t, err)
	require.Equal(t, values, got)
}

func TestResumeUnknown(t *testing.T) {
	store := NewShareStore(newFakeKV(), 0)
	require.Equal(t, DefaultTTL, store.ttl)

	_, err := store.Resume(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrShareNotFound)

	_, err = store.Resume(context.Background(), "../../etc")
	require.ErrorIs(t, err, ErrShareNotFound)
}

func TestBoundStoreFollowsEngine(t *testing.T) {
	ctx := context.Background()
	store := NewShareStore(newFakeKV(), time.Hour)
	id, err := store.Share(ctx, url.Values{search.ParamType: {"REVIEWS"}})
	require.NoError(t, err)

	bound := store.Bind(id)
	q, defined, err := search.LoadQuery(ctx, bound)
	require.NoError(t, err)
	require.False(t, defined)
	require.Equal(t, domain.SearchReviews, q.Type)

	require.NoError(t, bound.Save(ctx, search.EncodeQuery(domain.Query{Text: "night", Type: domain.SearchReviews})))
	got, err := store.Resume(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "night", got.Get(search.ParamText))
}

func TestBoundStoreMissingKeyIsEmpty(t *testing.T) {
	store := NewShareStore(newFakeKV(), time.Hour)
	values, err := store.Bind(uuid.NewString()).Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, values)
}

func TestShareSetError(t *testing.T) {
	kv := newFakeKV()
	kv.setErr = errors.New("READONLY")
	store := NewShareStore(kv, time.Hour)

	_, err := store.Share(context.Background(), url.Values{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "READONLY")
}
