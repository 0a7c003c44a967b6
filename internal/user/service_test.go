package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/egeshop-bot/internal/domain"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Upsert(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) ListIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func TestService_Register(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewService(repo, nil)

	before := time.Now().UTC()
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.TelegramID == 42 &&
			u.Username == "pupil" &&
			u.FirstName == "Иван" &&
			!u.RegisteredAt.Before(before)
	})).Return(nil).Once()

	err := svc.Register(context.Background(), &telebot.User{
		ID:        42,
		Username:  "pupil",
		FirstName: "Иван",
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_RegisterNilUser(t *testing.T) {
	svc := NewService(&mockUserRepo{}, nil)

	err := svc.Register(context.Background(), nil)
	assert.Error(t, err)
}

func TestService_RegisterRepoFailure(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewService(repo, nil)

	repo.On("Upsert", mock.Anything, mock.Anything).
		Return(errors.New("db down")).Once()

	err := svc.Register(context.Background(), &telebot.User{ID: 1})
	assert.Error(t, err)
	repo.AssertExpectations(t)
}

func TestService_ListIDs(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewService(repo, nil)

	repo.On("ListIDs", mock.Anything).Return([]int64{1, 2}, nil).Once()

	ids, err := svc.ListIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)
	repo.AssertExpectations(t)
}
