package service

import (
	"context"
	"testing"
	"time"

	"wspace-be/internal/dto"
	"wspace-be/internal/pkg/apperror"
	"wspace-be/internal/pkg/logger"
	"wspace-be/internal/repository/unitofwork"
	"wspace-be/pkg/database/databasetest"
	"wspace-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (IAuthService, IUserService, *events.Recorder) {
	t.Helper()
	factory := unitofwork.NewRepositoryFactory(databasetest.NewSQLite(t))
	recorder := events.NewRecorder(8)
	auth := NewAuthService(factory, "secret", time.Hour, recorder, logger.NewNopLogger(), SystemClock)
	return auth, NewUserService(factory), recorder
}

func TestRegisterAndLogin(t *testing.T) {
	auth, users, recorder := newAuthService(t)
	ctx := context.Background()

	reg, err := auth.Register(ctx, &dto.RegisterRequest{FullName: " Ada ", Email: "Ada@Example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", reg.User.Email)
	assert.Equal(t, "Ada", reg.User.FullName)
	assert.False(t, reg.User.NotionLinked)
	waitForEvent(t, recorder, "USER_REGISTERED")

	_, err = auth.Register(ctx, &dto.RegisterRequest{FullName: "Imposter", Email: "ADA@example.com ", Password: "whatever1"})
	assert.ErrorIs(t, err, apperror.ErrEmailTaken)

	_, err = auth.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = auth.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	login, err := auth.Login(ctx, &dto.LoginRequest{Email: "ADA@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.Id, login.User.Id)

	token, err := jwt.Parse(login.Token, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, reg.User.Id.String(), claims["user_id"])

	me, err := users.Me(ctx, reg.User.Id)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)
}

func TestUpdateNotionLinksAccount(t *testing.T) {
	auth, users, _ := newAuthService(t)
	ctx := context.Background()

	reg, err := auth.Register(ctx, &dto.RegisterRequest{FullName: "Grace", Email: "grace@example.com", Password: "password123"})
	require.NoError(t, err)

	res, err := users.UpdateNotion(ctx, reg.User.Id, &dto.UpdateNotionRequest{AccessToken: " secret_abc ", DatabaseId: "db-1"})
	require.NoError(t, err)
	assert.True(t, res.NotionLinked)

	me, err := users.Me(ctx, reg.User.Id)
	require.NoError(t, err)
	assert.True(t, me.NotionLinked)
}
