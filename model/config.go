package model

// GuardMode selects which Patreon guard implementation runs.
type GuardMode string

const (
	GuardModeFixer  GuardMode = "fixer"
	GuardModeMirror GuardMode = "mirror"
)

// GuardConfig configures the Patreon role guard. Loaded from
// data/guard_config.yaml.
type GuardConfig struct {
	Mode         GuardMode           `mapstructure:"mode"`
	PatreonBotID string              `mapstructure:"patreon_bot_id"`
	FixDelay     int                 `mapstructure:"fix_delay_seconds"`
	SyncRoles    map[string][]string `mapstructure:"sync_roles"` // trigger role -> synced roles
}

// Config stores the application configuration.
type Config struct {
	BotToken          string
	AppID             string
	LogWebhookURL     string
	SanctionDBPath    string
	ReconcileInterval int // seconds between reconciliation ticks
	Guard             GuardConfig
}
