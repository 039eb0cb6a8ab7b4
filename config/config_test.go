package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mod-helper/model"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("APP_ID", "app")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("APP_ID", "app")
	t.Setenv("SANCTION_DB_PATH", "")
	t.Setenv("RECONCILE_INTERVAL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "./data/sanctions.db", cfg.SanctionDBPath)
	assert.Equal(t, 60, cfg.ReconcileInterval)
}

func TestLoadInvalidInterval(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("APP_ID", "app")
	t.Setenv("RECONCILE_INTERVAL", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.ReconcileInterval)
}

func writeGuardConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guard_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadGuardConfigFixer(t *testing.T) {
	path := writeGuardConfig(t, `
mode: fixer
patreon_bot_id: "12345"
fix_delay_seconds: 5
`)

	guard, err := loadGuardConfig(path)
	require.NoError(t, err)
	assert.Equal(t, model.GuardModeFixer, guard.Mode)
	assert.Equal(t, "12345", guard.PatreonBotID)
	assert.Equal(t, 5, guard.FixDelay)
}

func TestLoadGuardConfigMirror(t *testing.T) {
	path := writeGuardConfig(t, `
mode: mirror
sync_roles:
  "111":
    - "222"
    - "333"
`)

	guard, err := loadGuardConfig(path)
	require.NoError(t, err)
	assert.Equal(t, model.GuardModeMirror, guard.Mode)
	assert.Equal(t, []string{"222", "333"}, guard.SyncRoles["111"])
}

func TestLoadGuardConfigMissingFile(t *testing.T) {
	guard, err := loadGuardConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, guard.Mode)
}

func TestLoadGuardConfigUnknownMode(t *testing.T) {
	path := writeGuardConfig(t, "mode: bogus\n")

	_, err := loadGuardConfig(path)
	require.Error(t, err)
}

func TestSplitRoleList(t *testing.T) {
	t.Setenv("BANNED_ROLES", "1, 2 ,,3")
	assert.Equal(t, []string{"1", "2", "3"}, SanctionRoles(model.SanctionBan))

	t.Setenv("BANNED_ROLES", "")
	assert.Nil(t, SanctionRoles(model.SanctionBan))
}

func TestCategoryRoles(t *testing.T) {
	t.Setenv("APPROVAL_LEADER_ROLES", "a1")
	t.Setenv("APPROVED_LEADER_ROLES", "g1,g2")

	approval, approved := CategoryRoles("leader")
	assert.Equal(t, []string{"a1"}, approval)
	assert.Equal(t, []string{"g1", "g2"}, approved)
}
