package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/user"
	idgen "github.com/matchdayhq/matchday/internal/platform/id"
	"github.com/matchdayhq/matchday/internal/platform/logging"
)

// PasswordHasher hides the hash scheme from the service.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer mints access tokens for authenticated principals.
type TokenIssuer interface {
	IssueAccessToken(p user.Principal) (string, time.Time, error)
}

// RegisterUserInput is the incoming payload for account creation.
type RegisterUserInput struct {
	Name      string
	Email     string
	Password  string
	Gender    string
	BirthDate *time.Time
	Phone     string
}

// UpdateProfileInput changes profile fields; empty strings keep current
// values, except Email which is checked for uniqueness when changed.
type UpdateProfileInput struct {
	UserID    string
	Name      string
	Email     string
	Gender    string
	BirthDate *time.Time
	Phone     string
}

// Session is an issued access token with its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      user.User
}

type UserService struct {
	userRepo user.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	idGen    idgen.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewUserService(
	userRepo user.Repository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	idGen idgen.Generator,
	logger *logging.Logger,
) *UserService {
	if logger == nil {
		logger = logging.Default()
	}

	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		idGen:    idGen,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Register")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if input.Name == "" {
		return user.User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Email == "" {
		return user.User{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if len(input.Password) < 8 {
		return user.User{}, fmt.Errorf("%w: password must have at least 8 characters", ErrInvalidInput)
	}

	if _, found, err := s.userRepo.GetByEmail(ctx, input.Email); err != nil {
		return user.User{}, fmt.Errorf("get user by email: %w", err)
	} else if found {
		return user.User{}, fmt.Errorf("%w: email is already registered", ErrAlreadyExists)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.idGen.NewID()
	if err != nil {
		return user.User{}, fmt.Errorf("generate user id: %w", err)
	}

	now := s.now().UTC()
	created := user.User{
		ID:           userID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Gender:       strings.TrimSpace(input.Gender),
		BirthDate:    input.BirthDate,
		Phone:        strings.TrimSpace(input.Phone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := created.Validate(); err != nil {
		return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.userRepo.Create(ctx, created); err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", created.ID)

	return created, nil
}

// Authenticate checks credentials and issues an access token. Unknown
// email and wrong password give the same answer.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Authenticate")
	defer span.End()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	account, found, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return Session{}, fmt.Errorf("get user by email: %w", err)
	}
	if !found {
		return Session{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return Session{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, expiresAt, err := s.tokens.IssueAccessToken(user.Principal{
		UserID: account.ID,
		Name:   account.Name,
		Email:  account.Email,
	})
	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}

	return Session{Token: token, ExpiresAt: expiresAt, User: account}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.GetProfile")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	account, found, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	return account, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.UpdateProfile")
	defer span.End()

	account, err := s.GetProfile(ctx, input.UserID)
	if err != nil {
		return user.User{}, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		account.Name = name
	}
	if email := normalizeEmail(input.Email); email != "" && email != account.Email {
		if _, found, err := s.userRepo.GetByEmail(ctx, email); err != nil {
			return user.User{}, fmt.Errorf("get user by email: %w", err)
		} else if found {
			return user.User{}, fmt.Errorf("%w: email is already registered", ErrAlreadyExists)
		}
		account.Email = email
	}
	if gender := strings.TrimSpace(input.Gender); gender != "" {
		account.Gender = gender
	}
	if input.BirthDate != nil {
		account.BirthDate = input.BirthDate
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		account.Phone = phone
	}
	account.UpdatedAt = s.now().UTC()

	if err := s.userRepo.Update(ctx, account); err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}

	return account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
