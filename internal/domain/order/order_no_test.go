package order

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// idRepo 只实现生成器用到的方法
type idRepo struct {
	Repository
	ids       map[string]bool
	latest    string
	createErr error
}

func newIDRepo(ids ...string) *idRepo {
	r := &idRepo{ids: make(map[string]bool)}
	for _, id := range ids {
		r.ids[id] = true
		r.latest = id
	}
	return r
}

func (r *idRepo) LatestID(context.Context) (string, error) {
	return r.latest, nil
}

func (r *idRepo) Create(_ context.Context, o *Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	if r.ids[o.ID] {
		return ErrDuplicateOrderID
	}
	r.ids[o.ID] = true
	r.latest = o.ID
	return nil
}

func TestFormatOrderID(t *testing.T) {
	assert.Equal(t, "ORD001", FormatOrderID(1))
	assert.Equal(t, "ORD042", FormatOrderID(42))
	assert.Equal(t, "ORD999", FormatOrderID(999))
	assert.Equal(t, "ORD1000", FormatOrderID(1000))
}

func TestParseOrderNumber(t *testing.T) {
	n, ok := ParseOrderNumber("ORD010")
	assert.True(t, ok)
	assert.Equal(t, int64(10), n)

	for _, bad := range []string{"", "ORD", "ORDabc", "XYZ001", "ORD-1"} {
		_, ok := ParseOrderNumber(bad)
		assert.False(t, ok, bad)
	}
}

func TestIsValidOrderID(t *testing.T) {
	assert.True(t, IsValidOrderID("ORD001"))
	assert.True(t, IsValidOrderID("ORD123456"))
	assert.False(t, IsValidOrderID("ORD01"))
	assert.False(t, IsValidOrderID("ord001"))
	assert.False(t, IsValidOrderID("ORD001x"))
}

func TestIDGenerator_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("first order", func(t *testing.T) {
		g := NewIDGenerator(newIDRepo())
		o := NewOrder(1, []OrderItem{{SweetID: 1}})
		require.NoError(t, g.Insert(ctx, o))
		assert.Equal(t, "ORD001", o.ID)
		assert.Equal(t, "ORD001", o.Items[0].OrderID)
	})

	t.Run("follows latest", func(t *testing.T) {
		g := NewIDGenerator(newIDRepo("ORD001", "ORD002"))
		o := NewOrder(1, nil)
		require.NoError(t, g.Insert(ctx, o))
		assert.Equal(t, "ORD003", o.ID)
	})

	t.Run("collision retries next candidate", func(t *testing.T) {
		repo := newIDRepo("ORD003", "ORD004", "ORD002")
		var collisions []string
		g := NewIDGenerator(repo, WithCollisionHook(func(id string) { collisions = append(collisions, id) }))

		o := NewOrder(1, nil)
		require.NoError(t, g.Insert(ctx, o))
		assert.Equal(t, "ORD005", o.ID)
		assert.Equal(t, []string{"ORD003", "ORD004"}, collisions)
	})

	t.Run("timestamp fallback after max attempts", func(t *testing.T) {
		repo := newIDRepo("ORD001", "ORD002", "ORD003")
		repo.latest = "ORD000"
		clock := func() time.Time { return time.UnixMilli(1700000123456) }
		g := NewIDGenerator(repo, WithMaxAttempts(3), WithClock(clock))

		o := NewOrder(1, nil)
		require.NoError(t, g.Insert(ctx, o))
		assert.Equal(t, "ORD123456", o.ID)
	})

	t.Run("fallback collision is reported", func(t *testing.T) {
		repo := newIDRepo("ORD001", "ORD123456")
		repo.latest = "ORD000"
		clock := func() time.Time { return time.UnixMilli(1700000123456) }
		g := NewIDGenerator(repo, WithMaxAttempts(1), WithClock(clock))

		o := NewOrder(1, nil)
		err := g.Insert(ctx, o)
		assert.ErrorIs(t, err, ErrOrderIDExhausted)
		assert.Empty(t, o.ID)
	})

	t.Run("other errors abort without retry", func(t *testing.T) {
		repo := newIDRepo()
		repo.createErr = ErrTokenConflict
		var collisions int
		g := NewIDGenerator(repo, WithCollisionHook(func(string) { collisions++ }))

		err := g.Insert(ctx, NewOrder(1, nil))
		assert.True(t, errors.Is(err, ErrTokenConflict))
		assert.Zero(t, collisions)
	})
}

func TestIDGenerator_SequentialIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	repo := newIDRepo()
	g := NewIDGenerator(repo)

	for i := 0; i < 1200; i++ {
		require.NoError(t, g.Insert(ctx, NewOrder(int64(i+1), nil)))
	}

	ids := make([]string, 0, len(repo.ids))
	for id := range repo.ids {
		assert.True(t, IsValidOrderID(id), id)
		ids = append(ids, id)
	}
	sort.Strings(ids)
	assert.Len(t, ids, 1200)
	assert.Equal(t, "ORD1200", repo.latest)
}
