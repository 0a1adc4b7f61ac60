package auth

import (
	"context"
	"errors"
	"testing"

	"competency-hub/internal/domain/user"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	byID    map[uuid.UUID]user.User
	byEmail map[string]user.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:    map[uuid.UUID]user.User{},
		byEmail: map[string]user.User{},
	}
}

func (m *mockUserRepo) CreateUser(_ context.Context, u user.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return errors.New("unique violation")
	}
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc := NewService(newMockUserRepo())

	created, err := svc.Register(context.Background(), RegisterInput{Email: "  Alice@Example.COM ", Password: "longenough"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if created.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.PasswordHash != "" {
		t.Fatal("expected password hash to be stripped from the result")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewService(newMockUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.test", Password: "short"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.test", Password: "longenough"}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(context.Background(), RegisterInput{Email: "A@B.test", Password: "longenough"})
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.test", Password: "longenough"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@b.test", Password: "wrongpass"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	got, err := svc.Login(context.Background(), LoginInput{Email: "a@b.test", Password: "longenough"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.Email != "a@b.test" {
		t.Fatalf("unexpected user %q", got.Email)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewService(newMockUserRepo())

	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@b.test", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
