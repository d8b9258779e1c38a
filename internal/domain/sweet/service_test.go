package sweet

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, s *Sweet) error {
	args := m.Called(ctx, s)
	if args.Error(0) == nil {
		s.ID = 1
	}
	return args.Error(0)
}

func (m *mockRepo) FindByID(ctx context.Context, id uint) (*Sweet, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*Sweet); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) FindByIDs(ctx context.Context, ids []uint) ([]*Sweet, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*Sweet), args.Error(1)
}

func (m *mockRepo) FindByName(ctx context.Context, name string) (*Sweet, error) {
	args := m.Called(ctx, name)
	if s, ok := args.Get(0).(*Sweet); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, params ListParams) ([]*Sweet, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]*Sweet), args.Error(1)
}

func (m *mockRepo) DecrStock(ctx context.Context, id uint, qty decimal.Decimal) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *mockRepo) IncrStock(ctx context.Context, id uint, qty decimal.Decimal) error {
	return m.Called(ctx, id, qty).Error(0)
}

func TestService_AddSweet(t *testing.T) {
	ctx := context.Background()

	t.Run("success trims name", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("FindByName", ctx, "Kaju Katli").Return(nil, ErrSweetNotFound)
		repo.On("Create", ctx, mock.AnythingOfType("*sweet.Sweet")).Return(nil)

		s, err := NewService(repo).AddSweet(ctx, "  Kaju Katli ", CategoryNutBased, d("50"), d("20"))
		require.NoError(t, err)
		assert.Equal(t, uint(1), s.ID)
		assert.Equal(t, "Kaju Katli", s.Name)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("FindByName", ctx, "Ladoo").Return(&Sweet{ID: 3, Name: "Ladoo"}, nil)

		_, err := NewService(repo).AddSweet(ctx, "Ladoo", CategoryFlourBased, d("10"), d("1"))
		assert.ErrorIs(t, err, ErrNameDuplicate)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("lookup failure is returned", func(t *testing.T) {
		repo := new(mockRepo)
		boom := errors.New("boom")
		repo.On("FindByName", ctx, "Ladoo").Return(nil, boom)

		_, err := NewService(repo).AddSweet(ctx, "Ladoo", CategoryFlourBased, d("10"), d("1"))
		assert.ErrorIs(t, err, boom)
	})

	invalid := []struct {
		name     string
		sweet    string
		category Category
		price    string
		qty      string
		want     error
	}{
		{"blank name", "   ", CategoryFried, "10", "1", ErrNameRequired},
		{"zero price", "Jalebi", CategoryFried, "0", "1", ErrInvalidPrice},
		{"negative stock", "Jalebi", CategoryFried, "10", "-1", ErrInvalidStock},
		{"unknown category", "Jalebi", Category("Savoury"), "10", "1", ErrInvalidCategory},
		{"price below cents", "Jalebi", CategoryFried, "10.005", "1", ErrPriceScale},
		{"stock below a thousandth", "Jalebi", CategoryFried, "10", "1.0005", ErrQuantityScale},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			_, err := NewService(repo).AddSweet(ctx, tt.sweet, tt.category, d(tt.price), d(tt.qty))
			assert.Equal(t, tt.want, err)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_AddSweet_TrailingZerosFitScale(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	repo.On("FindByName", ctx, "Rasgulla").Return(nil, ErrSweetNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*sweet.Sweet")).Return(nil)

	s, err := NewService(repo).AddSweet(ctx, "Rasgulla", CategoryMilkBased, d("12.5000"), d("7.250000"))
	require.NoError(t, err)
	assert.True(t, s.Price.Equal(d("12.5")))
}

func TestFitsScale(t *testing.T) {
	tests := []struct {
		v      string
		places int32
		want   bool
	}{
		{"1", 3, true},
		{"2.5", 3, true},
		{"1.001", 3, true},
		{"1.0010", 3, true},
		{"1.0005", 3, false},
		{"15.50", 2, true},
		{"15.505", 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.v, func(t *testing.T) {
			assert.Equal(t, tt.want, FitsScale(d(tt.v), tt.places))
		})
	}
}

func TestCategory_IsValid(t *testing.T) {
	assert.True(t, CategoryFusion.IsValid())
	assert.False(t, Category("milk-based").IsValid())
	assert.Contains(t, ErrInvalidCategory.Message, "Milk-Based, Nut-Based")
}
