package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"webshop-api/internal/domain"
	tokenrepo "webshop-api/internal/repository/token"

	"golang.org/x/crypto/bcrypt"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
	blocked map[string]bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: map[string]*domain.User{},
		byID:    map[string]*domain.User{},
		blocked: map[string]bool{},
	}
}

func (s *stubUserRepo) add(u *domain.User) {
	s.byEmail[u.Email] = u
	s.byID[u.ID] = u
}

func (s *stubUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	if _, ok := s.byEmail[u.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	u.ID = "u-" + u.Email
	s.add(&u)
	return &u, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) List(_ context.Context) ([]domain.User, error) { return nil, nil }

func (s *stubUserRepo) SetBlocked(_ context.Context, id string, blocked bool) error {
	u, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Blocked = blocked
	return nil
}

func (s *stubUserRepo) UpsertAdmin(_ context.Context, _, _ string) error { return nil }

type stubTokenRepo struct {
	tokens map[string]tokenrepo.Token
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: map[string]tokenrepo.Token{}}
}

func (s *stubTokenRepo) Create(_ context.Context, t tokenrepo.Token) error {
	if _, ok := s.tokens[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	s.tokens[t.Token] = t
	return nil
}

func (s *stubTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	t, ok := s.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (s *stubTokenRepo) Delete(_ context.Context, token string) error {
	if _, ok := s.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tokens, token)
	return nil
}

func (s *stubTokenRepo) DeleteForUser(_ context.Context, userID string) error {
	for k, t := range s.tokens {
		if t.UserID == userID {
			delete(s.tokens, k)
		}
	}
	return nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func TestSignupAndLogin(t *testing.T) {
	repo := newStubUserRepo()
	tokens := newStubTokenRepo()
	svc := New(repo, tokens)
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Email: "Jo@Example.com", Password: "Passw0rdX", FirstName: "Jo"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.Email != "jo@example.com" {
		t.Fatalf("expected lowercased email, got %q", u.Email)
	}

	logged, token, err := svc.Login(ctx, "jo@example.com", "Passw0rdX")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || logged.ID != u.ID {
		t.Fatalf("unexpected login result")
	}

	found, err := svc.LookupByToken(ctx, token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found.ID != u.ID {
		t.Fatalf("token resolved wrong user")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&domain.User{ID: "u1", Email: "a@b.c", PasswordHash: mustHash(t, "Correct1x")})
	svc := New(repo, newStubTokenRepo())

	_, _, err := svc.Login(context.Background(), "a@b.c", "Wrong1xxx")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_BlockedAccount(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&domain.User{ID: "u1", Email: "a@b.c", PasswordHash: mustHash(t, "Correct1x"), Blocked: true})
	svc := New(repo, newStubTokenRepo())

	_, _, err := svc.Login(context.Background(), "a@b.c", "Correct1x")
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
}

func TestSetBlocked_DropsSessions(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&domain.User{ID: "u1", Email: "a@b.c", PasswordHash: mustHash(t, "Correct1x")})
	tokens := newStubTokenRepo()
	svc := New(repo, tokens)
	ctx := context.Background()

	_, token, err := svc.Login(ctx, "a@b.c", "Correct1x")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.SetBlocked(ctx, "u1", true); err != nil {
		t.Fatalf("set blocked: %v", err)
	}
	if len(tokens.tokens) != 0 {
		t.Fatalf("expected sessions revoked")
	}
	if _, err := svc.LookupByToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after block, got %v", err)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&domain.User{ID: "u1", Email: "a@b.c", PasswordHash: mustHash(t, "Correct1x")})
	svc := New(repo, newStubTokenRepo())
	ctx := context.Background()

	_, token, err := svc.Login(ctx, "a@b.c", "Correct1x")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.LookupByToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}
	// Logging out twice is harmless.
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Passw0rdX", true},
		{"short1A", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoDigitsHere", false},
	}
	for _, tc := range cases {
		err := validatePassword(tc.password, 8)
		if tc.ok && err != nil {
			t.Errorf("password %q: unexpected error %v", tc.password, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("password %q: expected error", tc.password)
		}
	}
}
