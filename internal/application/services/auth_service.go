package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"board-service/internal/application/command"
	"board-service/internal/application/common"
	"board-service/internal/application/interfaces"
	"board-service/internal/application/mapper"
	"board-service/internal/application/query"
	"board-service/internal/auth"
	"board-service/internal/domain"
	"board-service/internal/domain/entities"
	"board-service/internal/domain/repositories"
	"board-service/internal/infrastructure"
)

const assigneeSearchLimit = 20

// SubscriberDropper closes live event streams once their credentials are gone.
type SubscriberDropper interface {
	DropUser(userID uuid.UUID)
	DropToken(token string)
}

type AuthConfig struct {
	SignupToken    string
	PasswordScheme entities.PasswordScheme
}

type AuthService struct {
	userRepo     repositories.UserRepository
	registry     *auth.Registry
	loginLimiter *infrastructure.RateLimiter
	subscribers  SubscriberDropper
	config       AuthConfig
	log          *slog.Logger
}

func NewAuthService(
	userRepo repositories.UserRepository,
	registry *auth.Registry,
	loginLimiter *infrastructure.RateLimiter,
	subscribers SubscriberDropper,
	config AuthConfig,
	log *slog.Logger,
) interfaces.AuthService {
	return &AuthService{
		userRepo:     userRepo,
		registry:     registry,
		loginLimiter: loginLimiter,
		subscribers:  subscribers,
		config:       config,
		log:          log,
	}
}

func (s *AuthService) Signup(ctx context.Context, signupCommand *command.SignupCommand) (*command.AuthResult, error) {
	if signupCommand.Email == "" || signupCommand.Password == "" || signupCommand.Name == "" || signupCommand.SignupToken == "" {
		return nil, domain.Validation("Email, password, name, and signup_token are required")
	}

	// Check if user already exists
	existingUser, err := s.userRepo.FindByEmail(ctx, signupCommand.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, domain.Conflict("User with this email already exists")
	}

	if subtle.ConstantTimeCompare([]byte(signupCommand.SignupToken), []byte(s.config.SignupToken)) != 1 {
		return nil, domain.Forbidden("Invalid signup token")
	}

	newUser := entities.NewUser(signupCommand.Email, signupCommand.Name, signupCommand.Password)
	validatedUser, err := entities.NewValidatedUser(newUser)
	if err != nil {
		return nil, err
	}
	if err := validatedUser.ApplyScheme(s.config.PasswordScheme); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// A concurrent signup can take the email between the check above and
	// the insert.
	createdUser, err := s.userRepo.Create(ctx, validatedUser)
	if errors.Is(err, repositories.ErrDuplicateEmail) {
		return nil, domain.Conflict("User with this email already exists")
	}
	if err != nil {
		return nil, err
	}

	token, err := s.registry.Issue(ctx, createdUser)
	if err != nil {
		return nil, err
	}

	s.log.Info("user signed up", "user_id", createdUser.Id)
	return &command.AuthResult{Token: token, User: mapper.NewUserResultFromEntity(createdUser)}, nil
}

func (s *AuthService) Login(ctx context.Context, loginCommand *command.LoginCommand) (*command.AuthResult, error) {
	if loginCommand.Email == "" || loginCommand.Password == "" {
		return nil, domain.Validation("Email and password are required")
	}

	if s.loginLimiter != nil {
		key := strings.ToLower(loginCommand.Email)
		if !s.loginLimiter.Allow(key) {
			return nil, domain.RateLimitedFor("Too many login attempts, please try again later", s.loginLimiter.RetryAfter(key))
		}
	}

	user, err := s.userRepo.FindByEmail(ctx, loginCommand.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CheckPassword(s.config.PasswordScheme, loginCommand.Password) {
		return nil, domain.Unauthenticated("Invalid credentials")
	}

	token, err := s.registry.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	return &command.AuthResult{Token: token, User: mapper.NewUserResultFromEntity(user)}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) (*common.MessageResult, error) {
	if err := s.registry.Revoke(ctx, token); err != nil {
		return nil, fmt.Errorf("revoke token: %w", err)
	}
	if s.subscribers != nil {
		s.subscribers.DropToken(token)
	}
	return &common.MessageResult{Message: "Successfully logged out"}, nil
}

func (s *AuthService) Me(user *entities.User) *common.UserResult {
	return mapper.NewUserResultFromEntity(user)
}

// DeleteAccount removes the user (cascading to their projects and comments)
// and every credential that could still act as them.
func (s *AuthService) DeleteAccount(ctx context.Context, user *entities.User) (*common.MessageResult, error) {
	if err := s.userRepo.Delete(ctx, user.Id); err != nil {
		return nil, err
	}
	if err := s.registry.RevokeAllForUser(ctx, user.Id); err != nil {
		return nil, fmt.Errorf("revoke tokens: %w", err)
	}
	if s.subscribers != nil {
		s.subscribers.DropUser(user.Id)
	}

	s.log.Info("account deleted", "user_id", user.Id)
	return &common.MessageResult{Message: "Account deleted successfully"}, nil
}

func (s *AuthService) SearchAssignees(ctx context.Context, searchQuery *query.AssigneeSearchQuery) ([]*common.UserResult, error) {
	users, err := s.userRepo.Search(ctx, strings.TrimSpace(searchQuery.Q), assigneeSearchLimit)
	if err != nil {
		return nil, err
	}
	return mapper.NewUserResultsFromEntities(users), nil
}
