package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
	"warestock/internal/core/security"
)

type fakeUserRepo struct {
	byID    map[id.ID]*User
	byEmail map[string]*User
	created *User
	updated *User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[id.ID]*User),
		byEmail: make(map[string]*User),
	}
}

func (f *fakeUserRepo) add(u *User) {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
}

func (f *fakeUserRepo) Create(_ context.Context, u *User) error {
	f.created = u
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID id.ID) (*User, error) {
	if u, ok := f.byID[userID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperror.NewNotFound("user", userID)
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := f.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperror.NewNotFound("user", email)
}

func (f *fakeUserRepo) Update(_ context.Context, u *User) error {
	f.updated = u
	f.add(u)
	return nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, userID id.ID, active bool) error {
	u, ok := f.byID[userID]
	if !ok {
		return apperror.NewNotFound("user", userID)
	}
	u.IsActive = active
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _ UserFilter) ([]User, int64, error) {
	out := make([]User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newAuthService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, jwtService), repo
}

func asAdmin(u *User) context.Context {
	actor := security.Actor{ID: u.ID, Name: u.Name, Role: security.RoleAdmin}
	return security.WithActor(context.Background(), actor)
}

func asUser(u *User) context.Context {
	return security.WithActor(context.Background(), u.Actor())
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, role security.Role) *User {
	t.Helper()
	u := NewUser("Test "+email, email, hashOf(t, password))
	u.Role = role
	repo.add(u)
	return u
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	svc, repo := newAuthService()
	seedUser(t, repo, "ana@example.com", "correct-horse", security.RoleUser)

	token, user, err := svc.Login(context.Background(), Credentials{
		Email:    "ana@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)
	assert.True(t, token.ExpiresAt.After(time.Now()))
	assert.Equal(t, "ana@example.com", user.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo := newAuthService()
	seedUser(t, repo, "ana@example.com", "correct-horse", security.RoleUser)

	_, _, err := svc.Login(context.Background(), Credentials{
		Email:    "ana@example.com",
		Password: "wrong",
	})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	svc, _ := newAuthService()

	_, _, err := svc.Login(context.Background(), Credentials{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	assert.Equal(t, "invalid credentials", appErr.Message)
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, repo := newAuthService()
	u := seedUser(t, repo, "ana@example.com", "correct-horse", security.RoleUser)
	u.IsActive = false

	_, _, err := svc.Login(context.Background(), Credentials{
		Email:    "ana@example.com",
		Password: "correct-horse",
	})

	assert.True(t, apperror.IsForbidden(err))
}

// --- Register ---

func TestRegister_AdminOnly(t *testing.T) {
	svc, repo := newAuthService()
	regular := seedUser(t, repo, "user@example.com", "password-123", security.RoleUser)

	_, err := svc.Register(asUser(regular), CreateUserInput{
		Name: "New", Email: "new@example.com", Password: "password-123",
	})

	assert.True(t, apperror.IsForbidden(err))
}

func TestRegister_Success(t *testing.T) {
	svc, repo := newAuthService()
	admin := seedUser(t, repo, "admin@example.com", "password-123", security.RoleAdmin)

	created, err := svc.Register(asAdmin(admin), CreateUserInput{
		Name:     "New User",
		Email:    "New@Example.com",
		Password: "password-123",
	})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", created.Email)
	assert.Equal(t, security.RoleUser, created.Role)
	assert.True(t, created.IsActive)
	assert.NotEqual(t, "password-123", created.PasswordHash)
	require.NotNil(t, repo.created)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc, repo := newAuthService()
	admin := seedUser(t, repo, "admin@example.com", "password-123", security.RoleAdmin)

	_, err := svc.Register(asAdmin(admin), CreateUserInput{
		Name: "New", Email: "new@example.com", Password: "short",
	})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo := newAuthService()
	admin := seedUser(t, repo, "admin@example.com", "password-123", security.RoleAdmin)
	seedUser(t, repo, "taken@example.com", "password-123", security.RoleUser)

	_, err := svc.Register(asAdmin(admin), CreateUserInput{
		Name: "New", Email: "taken@example.com", Password: "password-123",
	})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

// --- GetByID ---

func TestGetByID_SelfAllowed(t *testing.T) {
	svc, repo := newAuthService()
	u := seedUser(t, repo, "user@example.com", "password-123", security.RoleUser)

	got, err := svc.GetByID(asUser(u), u.ID)

	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestGetByID_OtherUserForbidden(t *testing.T) {
	svc, repo := newAuthService()
	u := seedUser(t, repo, "user@example.com", "password-123", security.RoleUser)
	other := seedUser(t, repo, "other@example.com", "password-123", security.RoleUser)

	_, err := svc.GetByID(asUser(u), other.ID)

	assert.True(t, apperror.IsForbidden(err))
}

// --- ChangePassword ---

func TestChangePassword_Success(t *testing.T) {
	svc, repo := newAuthService()
	u := seedUser(t, repo, "user@example.com", "old-password-1", security.RoleUser)

	err := svc.ChangePassword(asUser(u), "old-password-1", "new-password-1")

	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(repo.updated.PasswordHash), []byte("new-password-1")))
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	svc, repo := newAuthService()
	u := seedUser(t, repo, "user@example.com", "old-password-1", security.RoleUser)

	err := svc.ChangePassword(asUser(u), "not-the-password", "new-password-1")

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	assert.Nil(t, repo.updated)
}

// --- JWT round trip ---

func TestJWT_RoundTrip(t *testing.T) {
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	user := NewUser("Ana", "ana@example.com", "hash")
	user.Role = security.RoleAdmin

	tokenString, expiresAt, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), expiresAt, time.Minute)

	actor, err := jwtService.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.ID)
	assert.Equal(t, "Ana", actor.Name)
	assert.Equal(t, security.RoleAdmin, actor.Role)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))
	user := NewUser("Ana", "ana@example.com", "hash")

	tokenString, _, err := issuer.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestJWT_GarbageRejected(t *testing.T) {
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))

	_, err := jwtService.ValidateToken("not.a.token")
	assert.Error(t, err)
}
