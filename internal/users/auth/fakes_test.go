// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package auth_test

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fairwaylabs/fairway/internal/platform/apperr"
	"github.com/fairwaylabs/fairway/internal/users/auth"
)

// # In-Memory User Repository

// fakeUserRepository is an in-memory UserRepository with the same error
// contract as the Mongo implementation.
type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*auth.User{}}
}

// seed inserts a user directly, assigning an ID when absent.
func (repo *fakeUserRepository) seed(user *auth.User) *auth.User {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	repo.users[user.ID.Hex()] = user
	return user
}

func (repo *fakeUserRepository) get(id string) *auth.User {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.users[id]
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repo *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if user.AccountInfo.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, existing := range repo.users {
		if existing.AccountInfo.Email == user.AccountInfo.Email {
			return apperr.DuplicateEmail()
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	repo.users[user.ID.Hex()] = &clone
	return nil
}

// mutate applies an update to a stored user under the repository lock.
func (repo *fakeUserRepository) mutate(id string, apply func(*auth.User)) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	apply(user)
	return nil
}

func (repo *fakeUserRepository) MarkEmailVerified(_ context.Context, userID string) error {
	return repo.mutate(userID, func(user *auth.User) {
		user.AccountInfo.EmailVerified = true
		user.AccountInfo.VerificationDueBy = nil
	})
}

func (repo *fakeUserRepository) RenewVerificationWindow(_ context.Context, userID string, dueBy time.Time) error {
	return repo.mutate(userID, func(user *auth.User) {
		user.AccountInfo.VerificationDueBy = &dueBy
	})
}

func (repo *fakeUserRepository) SetResetToken(_ context.Context, userID, token string) error {
	return repo.mutate(userID, func(user *auth.User) {
		user.AccountInfo.PassResetToken = token
	})
}

func (repo *fakeUserRepository) SetResetVerifiedToken(_ context.Context, userID, token string) error {
	return repo.mutate(userID, func(user *auth.User) {
		user.AccountInfo.PassResetVerifiedToken = token
	})
}

func (repo *fakeUserRepository) CompletePasswordReset(_ context.Context, userID, newHash string) error {
	return repo.mutate(userID, func(user *auth.User) {
		user.AccountInfo.PasswordHash = newHash
		user.AccountInfo.PassResetToken = ""
		user.AccountInfo.PassResetVerifiedToken = ""
	})
}

func (repo *fakeUserRepository) EnrollMfaSecret(_ context.Context, userID, encryptedSecret string) error {
	return repo.mutate(userID, func(user *auth.User) {
		user.AccountInfo.MfaSecret = encryptedSecret
		user.AccountInfo.MfaVerified = false
	})
}

func (repo *fakeUserRepository) OpenMfaWindow(_ context.Context, userID string, startedAt time.Time) error {
	return repo.mutate(userID, func(user *auth.User) {
		user.AccountInfo.MfaStartTime = &startedAt
		user.AccountInfo.MfaAttempts = 0
	})
}

func (repo *fakeUserRepository) ConsumeMfaAttempt(_ context.Context, userID string) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.users[userID]
	if !ok {
		return 0, apperr.NotFound("User")
	}
	if user.AccountInfo.MfaAttempts >= auth.MaxMfaAttempts {
		return auth.MaxMfaAttempts, auth.ErrMfaAttemptsExhausted
	}
	user.AccountInfo.MfaAttempts++
	return user.AccountInfo.MfaAttempts, nil
}

func (repo *fakeUserRepository) CompleteMfaVerification(_ context.Context, userID string) error {
	return repo.mutate(userID, func(user *auth.User) {
		user.AccountInfo.MfaVerified = true
		user.AccountInfo.MfaAttempts = 0
		user.AccountInfo.MfaStartTime = nil
	})
}

func (repo *fakeUserRepository) LinkOauthAccount(_ context.Context, userID string, provider auth.OauthProvider) error {
	return repo.mutate(userID, func(user *auth.User) {
		user.AccountInfo.OauthProvider = provider
		user.AccountInfo.PasswordHash = ""
		user.AccountInfo.EmailVerified = true
	})
}

// # In-Memory Session Store

type fakeSessionStore struct {
	mu        sync.Mutex
	states    map[string]auth.SessionState
	deleteErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{states: map[string]auth.SessionState{}}
}

func (store *fakeSessionStore) Save(_ context.Context, state auth.SessionState, _ time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.states[state.UserID] = state
	return nil
}

func (store *fakeSessionStore) Find(_ context.Context, userID string) (*auth.SessionState, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	state, ok := store.states[userID]
	if !ok {
		return nil, apperr.Unauthorized("No active session")
	}
	return &state, nil
}

func (store *fakeSessionStore) Delete(_ context.Context, userID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.deleteErr != nil {
		return store.deleteErr
	}
	delete(store.states, userID)
	return nil
}

// # Recording Mail Sender

type fakeMailer struct {
	mu sync.Mutex

	verificationTokens []string
	resetCodes         []string
	lastRecipient      string

	verificationErr error
	resetErr        error
}

func (mailer *fakeMailer) SendVerificationEmail(_ context.Context, to, verificationToken string) error {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if mailer.verificationErr != nil {
		return mailer.verificationErr
	}
	mailer.lastRecipient = to
	mailer.verificationTokens = append(mailer.verificationTokens, verificationToken)
	return nil
}

func (mailer *fakeMailer) SendPasswordResetEmail(_ context.Context, to, resetCode string) error {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if mailer.resetErr != nil {
		return mailer.resetErr
	}
	mailer.lastRecipient = to
	mailer.resetCodes = append(mailer.resetCodes, resetCode)
	return nil
}

func (mailer *fakeMailer) lastVerificationToken() string {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.verificationTokens) == 0 {
		return ""
	}
	return mailer.verificationTokens[len(mailer.verificationTokens)-1]
}

func (mailer *fakeMailer) lastResetCode() string {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.resetCodes) == 0 {
		return ""
	}
	return mailer.resetCodes[len(mailer.resetCodes)-1]
}
