package sweet

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	mu     sync.Mutex
	sweets map[uint]*Sweet
	nextID uint
	// writes 记录 DecrStock / IncrStock 访问商品的顺序
	writes []uint
}

func newFakeRepo(sweets ...*Sweet) *fakeRepo {
	r := &fakeRepo{sweets: make(map[uint]*Sweet)}
	for _, s := range sweets {
		_ = r.Create(context.Background(), s)
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, s *Sweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	cp := *s
	r.sweets[s.ID] = &cp
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uint) (*Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sweets[id]
	if !ok {
		return nil, ErrSweetNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) FindByIDs(_ context.Context, ids []uint) ([]*Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Sweet
	for _, id := range ids {
		if s, ok := r.sweets[id]; ok {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindByName(_ context.Context, name string) (*Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sweets {
		if s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrSweetNotFound
}

func (r *fakeRepo) List(_ context.Context, _ ListParams) ([]*Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Sweet, 0, len(r.sweets))
	for _, s := range r.sweets {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRepo) DecrStock(_ context.Context, id uint, qty decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, id)
	s, ok := r.sweets[id]
	if !ok || s.Quantity.LessThan(qty) {
		return ErrInsufficientStock
	}
	s.Quantity = s.Quantity.Sub(qty)
	return nil
}

func (r *fakeRepo) IncrStock(_ context.Context, id uint, qty decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, id)
	s, ok := r.sweets[id]
	if !ok {
		return ErrSweetNotFound
	}
	s.Quantity = s.Quantity.Add(qty)
	return nil
}

func (r *fakeRepo) stock(id uint) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweets[id].Quantity
}

func (r *fakeRepo) takeWrites() []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.writes
	r.writes = nil
	return w
}
