package usecase

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/user"
	"github.com/matchdayhq/matchday/internal/infrastructure/repository/memory"
	"github.com/matchdayhq/matchday/internal/platform/logging"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "plain:"+password {
		return errors.New("hash mismatch")
	}
	return nil
}

type staticTokenIssuer struct{}

func (staticTokenIssuer) IssueAccessToken(p user.Principal) (string, time.Time, error) {
	return fmt.Sprintf("token-for-%s", p.UserID), time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC), nil
}

func newUserFixture() *UserService {
	users := memory.NewUserRepository(nil)
	service := NewUserService(users, plainHasher{}, staticTokenIssuer{}, &seqIDGenerator{}, logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) }

	return service
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	service := newUserFixture()

	created, err := service.Register(t.Context(), RegisterUserInput{
		Name:     "Ana Souza",
		Email:    "Ana@Example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if created.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}

	// Same email with different casing is still taken.
	_, err = service.Register(t.Context(), RegisterUserInput{
		Name:     "Impostora",
		Email:    "ANA@example.com",
		Password: "long enough",
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	_, err = service.Register(t.Context(), RegisterUserInput{Name: "Bruno", Email: "bruno@example.com", Password: "short"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}

	session, err := service.Authenticate(t.Context(), "ana@example.com", "correct horse")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if session.Token == "" || session.User.ID != created.ID {
		t.Fatalf("unexpected session %+v", session)
	}

	// Unknown email and wrong password are indistinguishable.
	for _, attempt := range []struct{ email, password string }{
		{"nobody@example.com", "correct horse"},
		{"ana@example.com", "wrong password"},
	} {
		_, err := service.Authenticate(t.Context(), attempt.email, attempt.password)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for %s, got %v", attempt.email, err)
		}
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	service := newUserFixture()

	ana, err := service.Register(t.Context(), RegisterUserInput{Name: "Ana Souza", Email: "ana@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := service.Register(t.Context(), RegisterUserInput{Name: "Bruno Lima", Email: "bruno@example.com", Password: "also long enough"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := service.UpdateProfile(t.Context(), UpdateProfileInput{
		UserID: ana.ID,
		Name:   "Ana S. Prado",
		Phone:  "+55 11 99999-0000",
	})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.Name != "Ana S. Prado" || updated.Email != "ana@example.com" {
		t.Fatalf("unexpected profile %+v", updated)
	}

	_, err = service.UpdateProfile(t.Context(), UpdateProfileInput{UserID: ana.ID, Email: "bruno@example.com"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for taken email, got %v", err)
	}

	_, err = service.GetProfile(t.Context(), "user-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
