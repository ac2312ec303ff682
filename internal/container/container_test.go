package container

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/taskboard/config"
	"github.com/oksasatya/taskboard/internal/testutil"
	"github.com/oksasatya/taskboard/pkg/helpers"
)

func baseConfig() *config.Config {
	return &config.Config{AppName: "Taskboard", Env: config.EnvDevelopment, JWTSecret: "s", TokenTTL: time.Hour, BcryptCost: 4}
}

func TestNew_OptionalClientsAbsent(t *testing.T) {
	store := testutil.NewStore()
	cfg := baseConfig()
	cfg.MailSendEnabled = true
	cfg.TokenRevocationEnabled = true

	c := New(cfg, testutil.Logger(), Deps{Users: store.Users(), Tasks: store.Tasks()})

	assert.Nil(t, c.Notifier, "no publisher means no notifier")
	assert.Nil(t, c.Auth.Notifier)
	assert.Nil(t, c.UserIndex)
	assert.Nil(t, c.Auth.Revoker)
	assert.Nil(t, c.Gate.Revoked)
	require.NotNil(t, c.Metrics)
	assert.Same(t, c.Metrics, c.Gate.Metrics)
	c.Close()
}

func TestNew_RedisBackedRevocation(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := testutil.NewStore()
	cfg := baseConfig()
	cfg.TokenRevocationEnabled = true

	c := New(cfg, testutil.Logger(), Deps{Users: store.Users(), Tasks: store.Tasks(), Redis: rdb})

	dl, ok := c.Auth.Revoker.(*helpers.TokenDenylist)
	require.True(t, ok)
	assert.Same(t, dl, c.Gate.Revoked)
	c.Close()
}

func TestNew_PublisherOverride(t *testing.T) {
	store := testutil.NewStore()
	pub := &testutil.Publisher{}
	c := New(baseConfig(), testutil.Logger(), Deps{Users: store.Users(), Tasks: store.Tasks(), Publisher: pub})

	require.NotNil(t, c.Notifier)
	assert.Same(t, c.Notifier, c.UserSvc.Notifier)
}
