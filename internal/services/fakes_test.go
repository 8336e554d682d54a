package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"stampbook/internal/interfaces"
	"stampbook/internal/models"
	"stampbook/internal/pkg/caching"
	"stampbook/internal/pkg/locker"

	"github.com/samber/do"
)

type userKey struct{ group, user string }

type albumKey struct{ group, user, stamp string }

type memoryStore struct {
	mu    sync.Mutex
	users map[userKey]models.SignUser
	album map[albumKey]bool

	failCollect error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users: map[userKey]models.SignUser{},
		album: map[albumKey]bool{},
	}
}

// memoryTx buffers the writes of one transaction. Reads see the committed
// store overlaid with the buffer; nothing is serialized between transactions,
// so concurrent callers rely on interfaces.Locker alone.
type memoryTx struct {
	users map[userKey]models.SignUser
	album map[albumKey]bool
}

type memoryRepo struct {
	store *memoryStore
	tx    *memoryTx

	// readDelay widens the window between a transaction's read and its writes.
	readDelay time.Duration
}

func (r *memoryRepo) RunInTx(ctx context.Context, fn func(ctx context.Context, repo interfaces.SignRepository) error) error {
	tx := &memoryTx{users: map[userKey]models.SignUser{}, album: map[albumKey]bool{}}
	if err := fn(ctx, &memoryRepo{store: r.store, tx: tx, readDelay: r.readDelay}); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for k, v := range tx.users {
		r.store.users[k] = v
	}
	for k, v := range tx.album {
		r.store.album[k] = v
	}
	return nil
}

func (r *memoryRepo) lookupUser(key userKey) (models.SignUser, bool) {
	if r.tx != nil {
		if user, ok := r.tx.users[key]; ok {
			return user, true
		}
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[key]
	return user, ok
}

func (r *memoryRepo) writeUser(key userKey, user models.SignUser) {
	if r.tx != nil {
		r.tx.users[key] = user
		return
	}
	r.store.mu.Lock()
	r.store.users[key] = user
	r.store.mu.Unlock()
}

// albumRows is the committed album overlaid with the transaction's writes.
func (r *memoryRepo) albumRows() map[albumKey]bool {
	r.store.mu.Lock()
	rows := make(map[albumKey]bool, len(r.store.album))
	for k, v := range r.store.album {
		rows[k] = v
	}
	r.store.mu.Unlock()

	if r.tx != nil {
		for k, v := range r.tx.album {
			rows[k] = v
		}
	}
	return rows
}

func (r *memoryRepo) FindUser(_ context.Context, groupID, userID string, _ bool) (*models.SignUser, error) {
	user, ok := r.lookupUser(userKey{groupID, userID})
	if r.readDelay > 0 {
		time.Sleep(r.readDelay)
	}
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &user, nil
}

func (r *memoryRepo) InsertUser(_ context.Context, user *models.SignUser) (bool, error) {
	key := userKey{user.GroupID, user.UserID}
	if _, ok := r.lookupUser(key); ok {
		return false, nil
	}
	r.writeUser(key, *user)
	return true, nil
}

func (r *memoryRepo) UpdateUserSign(_ context.Context, user *models.SignUser) error {
	key := userKey{user.GroupID, user.UserID}
	if _, ok := r.lookupUser(key); !ok {
		return sql.ErrNoRows
	}
	r.writeUser(key, *user)
	return nil
}

func (r *memoryRepo) CollectStamp(_ context.Context, groupID, userID, stampID string, _ time.Time) error {
	r.store.mu.Lock()
	failCollect := r.store.failCollect
	r.store.mu.Unlock()
	if failCollect != nil {
		return failCollect
	}

	key := albumKey{groupID, userID, stampID}
	if r.tx != nil {
		r.tx.album[key] = true
		return nil
	}
	r.store.mu.Lock()
	r.store.album[key] = true
	r.store.mu.Unlock()
	return nil
}

func (r *memoryRepo) GroupCollectCounts(_ context.Context, groupID string) ([]*models.CollectCount, error) {
	byUser := map[string]int{}
	for k, collected := range r.albumRows() {
		if k.group == groupID && collected {
			byUser[k.user]++
		}
	}

	counts := make([]*models.CollectCount, 0, len(byUser))
	for user, n := range byUser {
		counts = append(counts, &models.CollectCount{UserID: user, Stamps: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Stamps != counts[j].Stamps {
			return counts[i].Stamps > counts[j].Stamps
		}
		return counts[i].UserID < counts[j].UserID
	})
	return counts, nil
}

func (r *memoryRepo) ListCollectedStamps(_ context.Context, groupID, userID string) ([]string, error) {
	stamps := []string{}
	for k, collected := range r.albumRows() {
		if k.group == groupID && k.user == userID && collected {
			stamps = append(stamps, k.stamp)
		}
	}
	sort.Strings(stamps)
	return stamps, nil
}

func (s *memoryStore) user(groupID, userID string) (models.SignUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userKey{groupID, userID}]
	return user, ok
}

// queueDrawer hands out the queued draws in order, then repeats the last one.
type queueDrawer struct {
	mu    sync.Mutex
	draws []*Draw
}

func (d *queueDrawer) Draw() *Draw {
	d.mu.Lock()
	defer d.mu.Unlock()
	draw := *d.draws[0]
	if len(d.draws) > 1 {
		d.draws = d.draws[1:]
	}
	return &draw
}

type staticBackground struct {
	path string
	err  error
}

func (b staticBackground) Background(context.Context) (string, error) {
	return b.path, b.err
}

type staticQuote string

func (q staticQuote) Hitokoto(context.Context) (string, error) {
	return string(q), nil
}

// recordingLocker remembers every key it was asked for.
type recordingLocker struct {
	interfaces.Locker

	mu   sync.Mutex
	keys []string
}

func (l *recordingLocker) Obtain(ctx context.Context, key string) (func() error, error) {
	l.mu.Lock()
	l.keys = append(l.keys, key)
	l.mu.Unlock()
	return l.Locker.Obtain(ctx, key)
}

func (l *recordingLocker) Keys() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.keys...)
}

type failingLocker struct{}

func (failingLocker) Obtain(context.Context, string) (func() error, error) {
	return nil, errors.New("lock: not obtained")
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

var testPool = []models.Stamp{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}, {ID: "s4"}}

type testEnv struct {
	container *do.Injector
	store     *memoryStore
	repo      *memoryRepo
	clock     *fakeClock
	drawer    *queueDrawer
}

type testOption func(injector *do.Injector)

func withLocker(l interfaces.Locker) testOption {
	return func(injector *do.Injector) {
		do.OverrideValue[interfaces.Locker](injector, l)
	}
}

func withBackground(b interfaces.BackgroundProvider) testOption {
	return func(injector *do.Injector) {
		do.OverrideValue[interfaces.BackgroundProvider](injector, b)
	}
}

func newTestEnv(t *testing.T, draws []*Draw, opts ...testOption) *testEnv {
	t.Helper()

	store := newMemoryStore()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	drawer := &queueDrawer{draws: draws}
	repo := &memoryRepo{store: store}

	injector := do.New()
	do.ProvideValue[interfaces.SignRepository](injector, repo)
	do.ProvideValue[interfaces.Locker](injector, locker.NewLocal())
	do.ProvideValue[Drawer](injector, drawer)
	do.ProvideValue[interfaces.BackgroundProvider](injector, staticBackground{path: "bg.png"})
	do.ProvideValue[interfaces.QuoteProvider](injector, staticQuote("hello"))
	do.ProvideValue[caching.Cache](injector, caching.NewMemoryCache())
	do.ProvideValue(injector, &DrawConfig{Todos: []string{"sleep"}, AffectionMin: 1, AffectionMax: 10, Stamps: testPool})
	do.ProvideNamedValue(injector, "sign-location", time.UTC)
	do.ProvideValue(injector, Clock(clock.Now))
	do.Provide(injector, func(i *do.Injector) (*ServiceAlbum, error) {
		return NewServiceAlbum(i)
	})
	do.Provide(injector, func(i *do.Injector) (*ServiceSign, error) {
		return NewServiceSign(i)
	})

	for _, opt := range opts {
		opt(injector)
	}

	return &testEnv{injector, store, repo, clock, drawer}
}

func (env *testEnv) sign(t *testing.T) *ServiceSign {
	t.Helper()
	return do.MustInvoke[*ServiceSign](env.container)
}

func (env *testEnv) album(t *testing.T) *ServiceAlbum {
	t.Helper()
	return do.MustInvoke[*ServiceAlbum](env.container)
}
