package services

import (
	"context"
	"testing"
	"time"

	"kitchen_display/internal/database/dbtest"
	"kitchen_display/internal/models"
	"kitchen_display/internal/repository"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_LoginAndParse(t *testing.T) {
	db := dbtest.New(t)
	users := repository.NewUserRepository(db)

	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	user := &models.User{Username: "bep", Email: "bep@example.com", PasswordHash: hash, Role: string(models.Manager), IsActive: true}
	require.NoError(t, users.Create(context.Background(), user))

	auth := NewAuthService(users, "test-secret", time.Hour, gecho.NewDefaultLogger())

	token, expiresAt, err := auth.Login(context.Background(), "bep", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "manager", claims.Role)

	_, _, err = auth.Login(context.Background(), "bep", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = auth.Login(context.Background(), "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RejectsForeignAndExpiredTokens(t *testing.T) {
	db := dbtest.New(t)
	users := repository.NewUserRepository(db)
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &models.User{Username: "u", Email: "u@example.com", PasswordHash: hash, IsActive: true}))

	issuer := NewAuthService(users, "secret-a", time.Hour, gecho.NewDefaultLogger())
	token, _, err := issuer.Login(context.Background(), "u", "pw")
	require.NoError(t, err)

	other := NewAuthService(users, "secret-b", time.Hour, gecho.NewDefaultLogger())
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewAuthService(users, "secret-a", -time.Minute, gecho.NewDefaultLogger())
	token, _, err = expired.Login(context.Background(), "u", "pw")
	require.NoError(t, err)
	_, err = issuer.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ParseToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_InactiveUser(t *testing.T) {
	db := dbtest.New(t)
	users := repository.NewUserRepository(db)
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	user := &models.User{Username: "gone", Email: "gone@example.com", PasswordHash: hash, IsActive: true}
	require.NoError(t, users.Create(context.Background(), user))
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, _, err = NewAuthService(users, "s", time.Hour, gecho.NewDefaultLogger()).Login(context.Background(), "gone", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
