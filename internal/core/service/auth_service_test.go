package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/agendakit/crm-backend/internal/core/domain"
	"github.com/agendakit/crm-backend/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by id
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, &domain.DuplicateKeyError{Field: "email"}
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = string(rune('a' + r.nextID - 1))
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, &domain.NotFoundError{Entity: "user"}
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "user"}
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, fields ports.UpdateUserFields) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "user"}
	}
	if fields.Email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *fields.Email {
				return nil, &domain.DuplicateKeyError{Field: "email"}
			}
		}
		u.Email = *fields.Email
	}
	if fields.Name != nil {
		u.Name = *fields.Name
	}
	if fields.Role != nil {
		u.Role = *fields.Role
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdatePasswordHash(_ context.Context, id string, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return &domain.NotFoundError{Entity: "user"}
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return &domain.NotFoundError{Entity: "user"}
	}
	delete(r.users, id)
	return nil
}

func newTestAuthService(repo *stubUserRepo, throttle ports.LoginThrottle) (*AuthService, *TokenService) {
	tokens := NewTokenService("secret", time.Hour)
	return NewAuthService(repo, tokens, throttle, zerolog.Nop()), tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo, nil)

	result, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	user := result.User
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Role != domain.RoleEmployee {
		t.Fatalf("expected role to default to employee, got %q", user.Role)
	}
	if user.PasswordHash == "secret1" {
		t.Fatalf("password stored in plaintext")
	}
	if !CheckPassword("secret1", user.PasswordHash) {
		t.Fatalf("stored hash does not match password")
	}

	subject, err := tokens.Verify(result.Token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if subject != user.ID {
		t.Fatalf("token subject %q does not match user id %q", subject, user.ID)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, nil)

	cases := []struct {
		name  string
		input ports.RegisterInput
	}{
		{"missing name", ports.RegisterInput{Email: "a@x.com", Password: "secret1"}},
		{"missing email", ports.RegisterInput{Name: "A", Password: "secret1"}},
		{"bad email", ports.RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1"}},
		{"short password", ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "12345"}},
		{"bad role", ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1", Role: "superuser"}},
	}

	for _, tc := range cases {
		var ve *domain.ValidationError
		_, err := svc.Register(context.Background(), tc.input)
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
}

func TestAuthService_Register_DuplicateEmailCaseInsensitive(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, nil)

	first, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "A", Email: "a@x.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	var dup *domain.DuplicateKeyError
	_, err = svc.Register(context.Background(), ports.RegisterInput{
		Name: "B", Email: "A@X.COM", Password: "secret2",
	})
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateKeyError, got %v", err)
	}
	if dup.Field != "email" {
		t.Fatalf("expected email field, got %q", dup.Field)
	}

	// The first account is unaffected.
	stored, err := repo.FindByID(context.Background(), first.User.ID)
	if err != nil {
		t.Fatalf("first user missing after duplicate attempt: %v", err)
	}
	if stored.Name != "A" {
		t.Fatalf("first user mutated: %+v", stored)
	}
}

func TestAuthService_Register_ExplicitAdminRole(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, nil)

	result, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Root", Email: "root@x.com", Password: "secret1", Role: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if result.User.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", result.User.Role)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo, nil)

	registered, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Carol", Email: "carol@x.com", Password: "s3cret1",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "Carol@X.com", "s3cret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.User.ID != registered.User.ID {
		t.Fatalf("unexpected user: %+v", result.User)
	}

	if _, err := tokens.Verify(result.Token); err != nil {
		t.Fatalf("login token failed verification: %v", err)
	}
}

func TestAuthService_Login_UniformFailure(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Dave", Email: "dave@x.com", Password: "goodpass",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Wrong password and unknown account yield the identical error.
	_, wrongPw := svc.Login(context.Background(), "dave@x.com", "badpass")
	_, unknown := svc.Login(context.Background(), "ghost@x.com", "whatever")

	if wrongPw != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPw)
	}
	if unknown != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknown)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, nil)

	var ve *domain.ValidationError
	if _, err := svc.Login(context.Background(), "", "pass"); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@x.com", ""); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

type stubThrottle struct {
	blocked  bool
	failures int
	resets   int
}

func (s *stubThrottle) TooManyFailures(context.Context, string) (bool, error) {
	return s.blocked, nil
}

func (s *stubThrottle) RecordFailure(context.Context, string) error {
	s.failures++
	return nil
}

func (s *stubThrottle) Reset(context.Context, string) error {
	s.resets++
	return nil
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	throttle := &stubThrottle{blocked: true}
	svc, _ := newTestAuthService(repo, throttle)

	if _, err := svc.Login(context.Background(), "a@x.com", "pass123"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_ThrottleBookkeeping(t *testing.T) {
	repo := newStubUserRepo()
	throttle := &stubThrottle{}
	svc, _ := newTestAuthService(repo, throttle)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Eve", Email: "eve@x.com", Password: "goodpass",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _ = svc.Login(context.Background(), "eve@x.com", "badpass")
	if throttle.failures != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", throttle.failures)
	}

	if _, err := svc.Login(context.Background(), "eve@x.com", "goodpass"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if throttle.resets != 1 {
		t.Fatalf("expected throttle reset after success, got %d", throttle.resets)
	}
}

func TestAuthService_UpdatePassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, nil)

	registered, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Frank", Email: "frank@x.com", Password: "oldpass1",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	id := registered.User.ID

	if _, err := svc.UpdatePassword(context.Background(), id, "wrongpass", "newpass1"); err != domain.ErrWrongPassword {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}

	result, err := svc.UpdatePassword(context.Background(), id, "oldpass1", "newpass1")
	if err != nil {
		t.Fatalf("UpdatePassword returned error: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected fresh token after password change")
	}

	stored, _ := repo.FindByID(context.Background(), id)
	if !CheckPassword("newpass1", stored.PasswordHash) {
		t.Fatalf("new password not stored")
	}
	if CheckPassword("oldpass1", stored.PasswordHash) {
		t.Fatalf("old password still valid")
	}
}

func TestAuthService_UpdatePassword_TooShort(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo, nil)

	var ve *domain.ValidationError
	if _, err := svc.UpdatePassword(context.Background(), "a", "old", "short"); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
