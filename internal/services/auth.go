package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventfinder/internal/domain"
)

type authService struct {
	userRepo     domain.UserRepository
	hasher       domain.PasswordHasher
	issuer       domain.TokenIssuer
	verifier     domain.TokenVerifier
	emailService domain.EmailService
	logger       *slog.Logger
	now          func() time.Time
}

// NewAuthService creates an AuthService. emailService may be nil, in which case no welcome email is sent.
func NewAuthService(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	verifier domain.TokenVerifier,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.AuthService {
	return &authService{
		userRepo:     userRepo,
		hasher:       hasher,
		issuer:       issuer,
		verifier:     verifier,
		emailService: emailService,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *authService) Register(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrDuplicateEmail
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := domain.NewUser(email, hash, salt, now, now)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.sendWelcome(ctx, user)
	return result, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.verifier.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return user, nil
}

func (s *authService) issue(user *domain.User) (*domain.AuthResult, error) {
	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &domain.AuthResult{
		Token: token,
		User:  domain.UserSummary{ID: user.ID, Role: user.Role},
	}, nil
}

func (s *authService) sendWelcome(ctx context.Context, user *domain.User) {
	if s.emailService == nil {
		return
	}
	err := s.emailService.SendWelcomeMessage(ctx, &domain.WelcomeMessageEmailData{Email: user.Email, UserID: user.ID})
	if err != nil {
		s.logger.WarnContext(ctx, "welcome email failed", "user_id", user.ID, "err", err)
	}
}
