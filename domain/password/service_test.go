package password

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memoria-app/be-memoria-platform/utils"
)

type fakeUser struct {
	id           int64
	email        string
	username     string
	passwordHash string
	resetToken   string
	resetExpiry  time.Time
}

// fakeStore mirrors the conditional-update semantics of SQLStore in memory.
type fakeStore struct {
	mu    sync.Mutex
	users map[int64]*fakeUser

	// corruptWrites simulates a hash that does not survive the write, to
	// exercise the verify-and-rollback path.
	corruptWrites bool
}

func newFakeStore(users ...*fakeUser) *fakeStore {
	s := &fakeStore{users: make(map[int64]*fakeUser)}
	for _, u := range users {
		s.users[u.id] = u
	}
	return s
}

func (s *fakeStore) UserByEmail(_ context.Context, email string) (ResetUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.email == email {
			return ResetUser{ID: u.id, Email: u.email, Username: u.username}, nil
		}
	}
	return ResetUser{}, ErrUserNotFound
}

func (s *fakeStore) SaveResetToken(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	u.resetToken = token
	u.resetExpiry = expiresAt
	return nil
}

func (s *fakeStore) RotatePassword(_ context.Context, token, newHash string, now time.Time, check func(stored string) bool) (ResetUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.resetToken != token || !u.resetExpiry.After(now) {
			continue
		}
		written := newHash
		if s.corruptWrites {
			written = "$argon2id$garbage"
		}
		if !check(written) {
			return ResetUser{}, ErrPasswordUpdateFailed
		}
		u.passwordHash = written
		u.resetToken = ""
		u.resetExpiry = time.Time{}
		return ResetUser{ID: u.id, Email: u.email, Username: u.username}, nil
	}
	return ResetUser{}, ErrInvalidOrExpiredToken
}

func testService(store Store, now time.Time) *Service {
	svc := NewService(store)
	svc.now = func() time.Time { return now }
	return svc
}

func TestIssueCreatesTimeBoundedToken(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(&fakeUser{id: 1, email: "alice@memoria.app", username: "alice"})
	svc := testService(store, now)

	res, err := svc.Issue(context.Background(), "alice@memoria.app")
	require.NoError(t, err)

	assert.Len(t, res.Token, ResetTokenBytes*2)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, now.Add(time.Hour), res.ExpiresAt)
	assert.Equal(t, res.Token, store.users[1].resetToken)
}

func TestIssueUnknownEmail(t *testing.T) {
	store := newFakeStore(&fakeUser{id: 1, email: "alice@memoria.app", username: "alice"})
	svc := testService(store, time.Now())

	_, err := svc.Issue(context.Background(), "nobody@memoria.app")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, store.users[1].resetToken)
}

func TestReissueReplacesOutstandingToken(t *testing.T) {
	now := time.Now()
	store := newFakeStore(&fakeUser{id: 1, email: "alice@memoria.app", username: "alice"})
	svc := testService(store, now)

	first, err := svc.Issue(context.Background(), "alice@memoria.app")
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), "alice@memoria.app")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	_, err = svc.Redeem(context.Background(), first.Token, "new-password-1")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	username, err := svc.Redeem(context.Background(), second.Token, "new-password-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestRedeemRotatesCredential(t *testing.T) {
	now := time.Now()
	oldHash, err := utils.HashPassword("old-password")
	require.NoError(t, err)
	store := newFakeStore(&fakeUser{id: 1, email: "alice@memoria.app", username: "alice", passwordHash: oldHash})
	svc := testService(store, now)

	res, err := svc.Issue(context.Background(), "alice@memoria.app")
	require.NoError(t, err)

	username, err := svc.Redeem(context.Background(), res.Token, "brand-new-password")
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	assert.True(t, utils.CheckPasswordHash("brand-new-password", store.users[1].passwordHash))
	assert.False(t, utils.CheckPasswordHash("old-password", store.users[1].passwordHash))
	assert.Empty(t, store.users[1].resetToken)
}

func TestRedeemIsSingleUse(t *testing.T) {
	store := newFakeStore(&fakeUser{id: 1, email: "alice@memoria.app", username: "alice"})
	svc := testService(store, time.Now())

	res, err := svc.Issue(context.Background(), "alice@memoria.app")
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), res.Token, "new-password-1")
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), res.Token, "new-password-2")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestRedeemExpiredToken(t *testing.T) {
	issuedAt := time.Now()
	store := newFakeStore(&fakeUser{id: 1, email: "alice@memoria.app", username: "alice"})
	svc := testService(store, issuedAt)

	res, err := svc.Issue(context.Background(), "alice@memoria.app")
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(ResetTokenExpiry + time.Second) }
	_, err = svc.Redeem(context.Background(), res.Token, "new-password-1")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	assert.Equal(t, res.Token, store.users[1].resetToken)
}

func TestRedeemWrongToken(t *testing.T) {
	store := newFakeStore(&fakeUser{id: 1, email: "alice@memoria.app", username: "alice"})
	svc := testService(store, time.Now())

	_, err := svc.Issue(context.Background(), "alice@memoria.app")
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), "0000000000000000000000000000000000000000", "new-password-1")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestRedeemRejectsEmptyInputs(t *testing.T) {
	svc := testService(newFakeStore(), time.Now())

	_, err := svc.Redeem(context.Background(), "", "new-password")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, err = svc.Redeem(context.Background(), "sometoken", "")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestRedeemRollsBackOnVerifyFailure(t *testing.T) {
	oldHash, err := utils.HashPassword("old-password")
	require.NoError(t, err)
	store := newFakeStore(&fakeUser{id: 1, email: "alice@memoria.app", username: "alice", passwordHash: oldHash})
	store.corruptWrites = true
	svc := testService(store, time.Now())

	res, err := svc.Issue(context.Background(), "alice@memoria.app")
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), res.Token, "brand-new-password")
	assert.ErrorIs(t, err, ErrPasswordUpdateFailed)

	assert.True(t, utils.CheckPasswordHash("old-password", store.users[1].passwordHash))
	assert.Equal(t, res.Token, store.users[1].resetToken)
}

func TestIssueTokensAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := generateResetToken()
		require.NoError(t, err)
		require.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}
