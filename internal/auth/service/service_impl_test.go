package service

import (
	"context"
	"testing"
	"time"

	authdomain "github.com/dlsistemas/comisiones/internal/auth/domain"
	"github.com/dlsistemas/comisiones/internal/clock"
	"github.com/dlsistemas/comisiones/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, cfg config.Config) (authdomain.Service, *clock.FakeClock) {
	t.Helper()

	fake := clock.NewFakeClock(time.Date(2026, time.August, 28, 9, 0, 0, 0, time.UTC))
	svc := New(Params{
		Cfg:    cfg,
		Holder: config.NewStaticCommissionConfigHolder(config.DefaultCommissionConfig()),
		Log:    zap.NewNop(),
		Clock:  fake,
	})
	return svc, fake
}

func plainConfig() config.Config {
	return config.Config{AuthUsername: "DLS", AuthPassword: "secreto"}
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newTestService(t, plainConfig())

	session, err := svc.Login(context.Background(), "DLS", "secreto")
	assert.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.True(t, svc.Validate(context.Background(), session.Token))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t, plainConfig())

	_, err := svc.Login(context.Background(), "DLS", "nope")
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestLoginBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto"), bcrypt.MinCost)
	assert.NoError(t, err)

	svc, _ := newTestService(t, config.Config{
		AuthUsername:     "DLS",
		AuthPasswordHash: string(hash),
	})

	_, err = svc.Login(context.Background(), "DLS", "secreto")
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), "DLS", "nope")
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestLockoutAfterRepeatedFailures(t *testing.T) {
	svc, fake := newTestService(t, plainConfig())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Login(ctx, "DLS", "nope")
		assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
	}

	_, err := svc.Login(ctx, "DLS", "secreto")
	assert.ErrorIs(t, err, authdomain.ErrLockedOut)

	fake.Advance(5 * time.Minute)

	session, err := svc.Login(ctx, "DLS", "secreto")
	assert.NoError(t, err)
	assert.NotNil(t, session)
}

func TestSessionExpiry(t *testing.T) {
	svc, fake := newTestService(t, plainConfig())
	ctx := context.Background()

	session, err := svc.Login(ctx, "DLS", "secreto")
	assert.NoError(t, err)
	assert.True(t, svc.Validate(ctx, session.Token))

	fake.Advance(13 * time.Hour)
	assert.False(t, svc.Validate(ctx, session.Token))
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _ := newTestService(t, plainConfig())
	ctx := context.Background()

	session, err := svc.Login(ctx, "DLS", "secreto")
	assert.NoError(t, err)

	svc.Logout(ctx, session.Token)
	assert.False(t, svc.Validate(ctx, session.Token))
}
