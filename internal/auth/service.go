package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("missing required fields")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidRole        = errors.New("role must be ADMIN or SUPERVISOR")
)

type Service struct {
	repo   UserRepository
	tokens *Tokens
	log    *zap.Logger
}

func NewService(repo UserRepository, tokens *Tokens, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, tokens: tokens, log: log}
}

// REGISTER
func (s *Service) Register(ctx context.Context, name, email, password, role string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if role == "" {
		role = RoleSupervisor
	}
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     role,
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("role", role))
	return user, nil
}

// LOGIN returns the user and a signed bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	err = bcrypt.CompareHashAndPassword(
		[]byte(user.Password),
		[]byte(password),
	)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}

// EnsureAdmin creates the bootstrap admin account once. It is a no-op when
// the email is empty or already registered.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.Register(ctx, "Administrator", email, password, RoleAdmin)
	if errors.Is(err, ErrEmailExists) {
		return nil
	}
	return err
}
