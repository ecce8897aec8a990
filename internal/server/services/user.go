// Package services contains server-side business logic. This file implements
// UserService: signup, login and the caller's own profile.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkfeed/internal/common"
	"github.com/dmitrijs2005/linkfeed/internal/server/auth"
	"github.com/dmitrijs2005/linkfeed/internal/server/models"
	"github.com/dmitrijs2005/linkfeed/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// maxPasswordBytes is the longest input bcrypt hashes without truncation.
const maxPasswordBytes = 72

// SignupInput is what a new user submits.
type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// Validate implements validation.Validatable.
func (in SignupInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(1, maxPasswordBytes)),
		validation.Field(&in.Name, validation.Required),
	)
}

// AuthPayload is returned by signup and login.
type AuthPayload struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// UserService registers users and exchanges credentials for tokens.
type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenService
}

// NewUserService constructs a UserService.
func NewUserService(m repomanager.RepositoryManager, hasher *auth.PasswordHasher, tokens *auth.TokenService) *UserService {
	return &UserService{
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// Signup stores a new user with a hashed password and returns a token for it.
// A taken email yields common.ErrAlreadyExists.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthPayload, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrValidation, err.Error())
	}

	digest, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.repomanager.Users().Create(ctx, &models.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: digest,
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.payload(user)
}

// Login checks the password and returns a token. An unknown email and a wrong
// password produce the same common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	user, err := s.repomanager.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(ctx, password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, common.ErrInvalidCredentials
	}

	return s.payload(user)
}

// Me returns the caller's public profile.
func (s *UserService) Me(ctx context.Context) (*models.PublicUser, error) {
	id, err := auth.RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users().GetUserByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// a valid token for a user that no longer exists
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	p := user.Public()
	return &p, nil
}

func (s *UserService) payload(user *models.User) (*AuthPayload, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthPayload{Token: token, User: user.Public()}, nil
}
