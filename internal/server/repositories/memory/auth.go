package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type VerificationsRepository struct {
	s *Store
}

func (r *VerificationsRepository) Get(ctx context.Context, email string) (*models.Verification, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.t.verifications[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &v, nil
}

func (r *VerificationsRepository) Upsert(ctx context.Context, v *models.Verification) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v.Verified = false
	r.s.t.verifications[v.Email] = *v
	return nil
}

func (r *VerificationsRepository) MarkVerified(ctx context.Context, email string) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.t.verifications[email]
	if !ok {
		return common.ErrorNotFound
	}
	v.Verified = true
	r.s.t.verifications[email] = v
	return nil
}

type RefreshTokensRepository struct {
	s *Store
}

func (r *RefreshTokensRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.users[userID]; !ok {
		return common.ErrorNotFound
	}
	if _, ok := r.s.t.refreshTokens[token]; ok {
		return common.ErrAlreadyExists
	}
	r.s.t.refreshTokens[token] = models.RefreshToken{UserID: userID, Token: token, Expires: r.s.now().Add(validity)}
	return nil
}

func (r *RefreshTokensRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rt, ok := r.s.t.refreshTokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &rt, nil
}

func (r *RefreshTokensRepository) Delete(ctx context.Context, token string) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.t.refreshTokens, token)
	return nil
}

func (r *RefreshTokensRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for token, rt := range r.s.t.refreshTokens {
		if rt.UserID == userID {
			delete(r.s.t.refreshTokens, token)
			n++
		}
	}
	return n, nil
}
