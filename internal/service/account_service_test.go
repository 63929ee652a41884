package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"discord-social-bot/internal/models"
	"discord-social-bot/internal/transfer"
	"discord-social-bot/pkg/vault"
)

type stubAccountRepo struct {
	accounts    map[primitive.ObjectID]*models.SocialMediaAccount
	created     []*models.SocialMediaAccount
	deactivated []primitive.ObjectID
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[primitive.ObjectID]*models.SocialMediaAccount)}
}

func (s *stubAccountRepo) Create(_ context.Context, sa *models.SocialMediaAccount) (primitive.ObjectID, error) {
	sa.ID = primitive.NewObjectID()
	sa.IsActive = true
	s.created = append(s.created, sa)
	s.accounts[sa.ID] = sa
	return sa.ID, nil
}

func (s *stubAccountRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.SocialMediaAccount, error) {
	return s.accounts[id], nil
}

func (s *stubAccountRepo) ListActive(context.Context) ([]*models.SocialMediaAccount, error) {
	var active []*models.SocialMediaAccount
	for _, sa := range s.accounts {
		if sa.IsActive {
			active = append(active, sa)
		}
	}
	return active, nil
}

func (s *stubAccountRepo) ListExpiring(context.Context, time.Time, time.Time) ([]*models.SocialMediaAccount, error) {
	return nil, nil
}

func (s *stubAccountRepo) GetTokens(context.Context, string) (*transfer.TokenBundle, error) {
	return nil, nil
}

func (s *stubAccountRepo) SetTokens(context.Context, primitive.ObjectID, models.PlatformTokens) error {
	return nil
}

func (s *stubAccountRepo) Deactivate(_ context.Context, id primitive.ObjectID) (bool, error) {
	sa, ok := s.accounts[id]
	if !ok || !sa.IsActive {
		return false, nil
	}
	sa.IsActive = false
	s.deactivated = append(s.deactivated, id)
	return true, nil
}

type stubActivityRepo struct {
	entries []*models.ActivityLog
}

func (s *stubActivityRepo) Log(_ context.Context, entry *models.ActivityLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubActivityRepo) ListRecent(context.Context, int64) ([]*models.ActivityLog, error) {
	return s.entries, nil
}

func (s *stubActivityRepo) ListByDiscordID(context.Context, string, int64) ([]*models.ActivityLog, error) {
	return s.entries, nil
}

func newAccountTestVault(t *testing.T) *vault.Vault {
	t.Helper()
	v, err := vault.New("unit-test-key")
	require.NoError(t, err)
	return v
}

func TestConnectEncryptsTokens(t *testing.T) {
	repo := newStubAccountRepo()
	activity := &stubActivityRepo{}
	v := newAccountTestVault(t)
	s := NewAccountService(repo, activity, v)

	expiresAt := time.Now().UTC().Add(time.Hour)
	id, err := s.Connect(context.Background(), "discord-user-1", &transfer.AccountConnection{
		Platform:     "linkedin",
		AccountName:  "Acme Marketing",
		AccessToken:  "plain-access",
		RefreshToken: "plain-refresh",
		ExpiresAt:    &expiresAt,
		Scope:        "w_member_social",
	})
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	require.Len(t, repo.created, 1)
	stored := repo.created[0]
	assert.Equal(t, models.PlatformLinkedin, stored.Platform)
	assert.NotEqual(t, "plain-access", stored.Tokens.AccessToken)
	assert.NotEqual(t, "plain-refresh", stored.Tokens.RefreshToken)

	access, err := v.Decrypt(stored.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "plain-access", access)

	refresh, err := v.Decrypt(stored.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "plain-refresh", refresh)

	require.Len(t, activity.entries, 1)
	assert.Equal(t, models.ActionAccountConnected, activity.entries[0].Action)
	assert.Equal(t, "discord-user-1", activity.entries[0].DiscordID)
}

func TestConnectRejectsUnknownPlatform(t *testing.T) {
	s := NewAccountService(newStubAccountRepo(), &stubActivityRepo{}, newAccountTestVault(t))

	_, err := s.Connect(context.Background(), "discord-user-1", &transfer.AccountConnection{
		Platform:    "myspace",
		AccessToken: "token",
	})
	assert.Error(t, err)
}

func TestConnectRequiresAccessToken(t *testing.T) {
	s := NewAccountService(newStubAccountRepo(), &stubActivityRepo{}, newAccountTestVault(t))

	_, err := s.Connect(context.Background(), "discord-user-1", &transfer.AccountConnection{
		Platform: "facebook",
	})
	assert.Error(t, err)
}

func TestDisconnectDeactivatesAndLogs(t *testing.T) {
	repo := newStubAccountRepo()
	activity := &stubActivityRepo{}
	v := newAccountTestVault(t)
	s := NewAccountService(repo, activity, v)

	id, err := s.Connect(context.Background(), "discord-user-1", &transfer.AccountConnection{
		Platform:    "tiktok",
		AccountName: "acme",
		AccessToken: "token",
	})
	require.NoError(t, err)

	err = s.Disconnect(context.Background(), "discord-user-2", id)
	require.NoError(t, err)

	assert.False(t, repo.accounts[id].IsActive)
	require.Len(t, activity.entries, 2)
	assert.Equal(t, models.ActionAccountDisconnected, activity.entries[1].Action)

	err = s.Disconnect(context.Background(), "discord-user-2", id)
	assert.Error(t, err)
}

func TestDisconnectUnknownAccount(t *testing.T) {
	s := NewAccountService(newStubAccountRepo(), &stubActivityRepo{}, newAccountTestVault(t))

	err := s.Disconnect(context.Background(), "discord-user-1", primitive.NewObjectID())
	assert.Error(t, err)
}
