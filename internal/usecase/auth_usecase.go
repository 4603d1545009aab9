package usecase

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/hielosur/cashbook/internal/domain"
)

// AuthUseCase handles credential checks. Users are seeded by migration;
// there is no registration path.
type AuthUseCase struct {
	userRepo  UserRepository
	auditRepo AuditRepository
	idGen     IDGenerator
	clock     Clock
}

// NewAuthUseCase creates a new AuthUseCase.
func NewAuthUseCase(userRepo UserRepository, auditRepo AuditRepository, idGen IDGenerator, clock Clock) *AuthUseCase {
	return &AuthUseCase{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		idGen:     idGen,
		clock:     clock,
	}
}

// Login verifies credentials and returns the user. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Active {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		uc.audit(ctx, user.ID, domain.AuditStatusFailure)
		return nil, domain.ErrInvalidCredentials
	}

	uc.audit(ctx, user.ID, domain.AuditStatusSuccess)
	return user, nil
}

// audit records the login attempt. Login must not fail because the audit
// write did, so errors are swallowed here.
func (uc *AuthUseCase) audit(ctx context.Context, userID string, status domain.AuditStatus) {
	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:        uc.idGen.Generate(),
		UserID:    userID,
		Action:    string(domain.AuditActionUserLogin),
		Status:    string(status),
		CreatedAt: uc.clock.Now(),
	})
}
