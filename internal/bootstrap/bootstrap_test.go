package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AERESAL/VolunteerHub-Backend/internal/config"
	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
	"github.com/AERESAL/VolunteerHub-Backend/internal/notify"
	"github.com/AERESAL/VolunteerHub-Backend/internal/persistence/memory"
)

func TestNewWithoutBackendsUsesMemoryStore(t *testing.T) {
	app, err := New(context.Background(), config.Config{JWTSecret: "s", JWTIssuer: "i", BcryptCost: 4})
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Pool)
	assert.IsType(t, &memory.Store{}, app.Store)
	assert.IsType(t, domain.NoopLeaderboardCache{}, app.Cache)
	require.NotNil(t, app.Ledger)
	require.NotNil(t, app.Signatures)
	require.NotNil(t, app.Leaderboard)
	require.NotNil(t, app.Accounts)

	user, err := app.Accounts.Register(context.Background(), domain.SignupInput{
		FirstName: "A", LastName: "B", Email: "a@example.org", Username: "ab", Password: "pw",
	})
	require.NoError(t, err)

	session, err := app.Accounts.Login(context.Background(), "ab", "pw")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, session.UserID)
}

func TestNewSenderFallsBackToLog(t *testing.T) {
	assert.IsType(t, notify.LogSender{}, newSender(config.Config{}))
	assert.IsType(t, &notify.SMTPSender{}, newSender(config.Config{SMTPHost: "smtp.example.org", SMTPPort: 587}))
}

func TestAuthConfig(t *testing.T) {
	cfg := AuthConfig(config.Config{JWTSecret: "secret", JWTIssuer: "issuer"})
	assert.Equal(t, "secret", cfg.Secret)
	assert.Equal(t, "issuer", cfg.Issuer)
}
