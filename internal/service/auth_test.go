package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakib/webstack/internal/apperror"
	"github.com/sakib/webstack/internal/auth"
	"github.com/sakib/webstack/internal/model"
	"github.com/sakib/webstack/internal/repository"
)

// =========================================================================
// FAKE REPOSITORY
// =========================================================================
//
// A hand-written in-memory fake (not a mock framework) keeps tests
// dependency-free and easy to read — you can see exactly what the fake
// does. It implements repository.UserRepository the same way the sqlite
// package does, including the duplicate-email conflict on Create.

type fakeUserRepo struct {
	byEmail map[string]*model.User
	byID    map[int64]*model.User
	nextID  int64
	// set to simulate a database failure
	failWith error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*model.User),
		byID:    make(map[int64]*model.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.byEmail[user.Email]; ok {
		// Same behavior as the UNIQUE constraint in sqlite.
		return apperror.EmailTaken(user.Email)
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	stored := *user
	f.byEmail[user.Email] = &stored
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", "id")
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserRepo) List(_ context.Context, opts repository.ListOptions) ([]model.User, error) {
	users := []model.User{}
	for _, u := range f.byEmail {
		if opts.Email != "" && u.Email != opts.Email {
			continue
		}
		users = append(users, *u)
	}
	return users, nil
}

// =========================================================================
// TEST HELPER
// =========================================================================

// newTestAuthService returns an AuthService wired with a fake repository and
// real auth primitives under a test-only secret.
func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *auth.TokenService) {
	t.Helper()

	repo := newFakeUserRepo()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	svc := NewAuthService(repo, tokens, auth.NewPasswordService(), logger)
	return svc, repo, tokens
}

// =========================================================================
// SIGNUP TESTS
// =========================================================================

func TestSignup_CreatesUserAndIssuesToken(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)

	result, err := svc.Signup(context.Background(), "new@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if result.User.ID == 0 {
		t.Error("Signup() did not populate the user ID")
	}
	if result.Token == "" {
		t.Fatal("Signup() returned an empty token")
	}

	// The issued token must verify and carry the new user's identity.
	identity, err := tokens.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate(signup token) error = %v", err)
	}
	if identity.UserID != result.User.ID {
		t.Errorf("token UserID = %d, want %d", identity.UserID, result.User.ID)
	}
	if identity.Email != "new@example.com" {
		t.Errorf("token Email = %q, want new@example.com", identity.Email)
	}
}

func TestSignup_StoresVerifiableHashNotPlaintext(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	if _, err := svc.Signup(context.Background(), "new@example.com", "hunter22"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	stored := repo.byEmail["new@example.com"]
	if stored.PasswordHash == "hunter22" {
		t.Fatal("Signup() stored the plaintext password")
	}
	if !auth.NewPasswordService().Verify(stored.PasswordHash, "hunter22") {
		t.Error("stored hash does not verify against the original password")
	}
}

func TestSignup_MissingFields(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	cases := []struct {
		name            string
		email, password string
	}{
		{"empty email", "", "hunter22"},
		{"empty password", "new@example.com", ""},
		{"both empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.email, tc.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Signup() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	first, err := svc.Signup(context.Background(), "dup@example.com", "original-password")
	if err != nil {
		t.Fatalf("first Signup() error = %v", err)
	}

	_, err = svc.Signup(context.Background(), "dup@example.com", "other-password")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second Signup() error = %v, want ErrConflict", err)
	}

	// The original record must be untouched by the failed attempt.
	stored := repo.byEmail["dup@example.com"]
	if stored.ID != first.User.ID {
		t.Errorf("stored ID changed: %d, want %d", stored.ID, first.User.ID)
	}
	if !auth.NewPasswordService().Verify(stored.PasswordHash, "original-password") {
		t.Error("original password no longer verifies after duplicate signup attempt")
	}
}

func TestSignup_RepositoryFailure(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	repo.failWith = errors.New("disk is on fire")

	_, err := svc.Signup(context.Background(), "new@example.com", "hunter22")
	if err == nil {
		t.Fatal("Signup() should surface repository failures")
	}
	// Infrastructure failures are NOT domain errors — the handler must map
	// this to a generic 500, not a 400/409.
	if errors.Is(err, apperror.ErrValidation) || errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Signup() wrapped an infrastructure failure as a domain error: %v", err)
	}
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)

	signup, err := svc.Signup(context.Background(), "user@example.com", "correct-password")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	result, err := svc.Login(context.Background(), "user@example.com", "correct-password", false)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if result.ExpiresIn != int64(LoginTokenTTL.Seconds()) {
		t.Errorf("ExpiresIn = %d, want %d", result.ExpiresIn, int64(LoginTokenTTL.Seconds()))
	}

	identity, err := tokens.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate(login token) error = %v", err)
	}
	if identity.UserID != signup.User.ID || identity.Email != "user@example.com" {
		t.Errorf("token identity = %+v, want id=%d email=user@example.com", identity, signup.User.ID)
	}
}

func TestLogin_RememberExtendsLifetime(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Signup(context.Background(), "user@example.com", "correct-password"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	result, err := svc.Login(context.Background(), "user@example.com", "correct-password", true)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	want := int64(30 * 24 * 3600)
	if result.ExpiresIn != want {
		t.Errorf("ExpiresIn with remember = %d, want %d", result.ExpiresIn, want)
	}
}

func TestLogin_UnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Signup(context.Background(), "known@example.com", "correct-password"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	_, errUnknown := svc.Login(context.Background(), "unknown@example.com", "whatever", false)
	_, errWrongPw := svc.Login(context.Background(), "known@example.com", "wrong-password", false)

	for name, err := range map[string]error{"unknown email": errUnknown, "wrong password": errWrongPw} {
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Errorf("%s: error = %v, want ErrUnauthorized", name, err)
		}
	}

	// Identical message and code — no user enumeration through error text.
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("login failures differ: %q vs %q", errUnknown.Error(), errWrongPw.Error())
	}
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Login(context.Background(), "", "pw", false); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Login(no email) error = %v, want ErrValidation", err)
	}
	if _, err := svc.Login(context.Background(), "a@b.c", "", false); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Login(no password) error = %v, want ErrValidation", err)
	}
}

// =========================================================================
// AUTHENTICATE TESTS
// =========================================================================

func TestAuthenticate_ValidToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	signup, err := svc.Signup(context.Background(), "user@example.com", "pw123456")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	identity := svc.Authenticate(signup.Token)
	if identity == nil {
		t.Fatal("Authenticate() = nil for a freshly issued token")
	}
	if identity.UserID != signup.User.ID {
		t.Errorf("Authenticate() UserID = %d, want %d", identity.UserID, signup.User.ID)
	}
}

func TestAuthenticate_FailuresAreNil(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)

	expired, _ := tokens.Issue(1, "x@example.com", -time.Minute)

	cases := map[string]string{
		"empty":   "",
		"garbage": "not.a.jwt",
		"expired": expired,
	}
	for name, tokenStr := range cases {
		t.Run(name, func(t *testing.T) {
			if identity := svc.Authenticate(tokenStr); identity != nil {
				t.Errorf("Authenticate(%s) = %+v, want nil", name, identity)
			}
		})
	}
}
