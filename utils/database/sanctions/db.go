package sanctions

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Init initializes the sanction database and ensures all necessary tables are created.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sanction database: %w", err)
	}

	usersSchema := `CREATE TABLE IF NOT EXISTS users (
	          user_id TEXT PRIMARY KEY,
	          banned INTEGER NOT NULL DEFAULT 0,
	          ban_start_time INTEGER,
	          ban_end_time INTEGER,
	          ban_reason TEXT,
	          muted INTEGER NOT NULL DEFAULT 0,
	          mute_start_time INTEGER,
	          mute_end_time INTEGER,
	          mute_reason TEXT
	      );`
	if _, err = db.Exec(usersSchema); err != nil {
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}

	actionsSchema := `CREATE TABLE IF NOT EXISTS moderation_actions (
	          id INTEGER PRIMARY KEY AUTOINCREMENT,
	          action_type TEXT NOT NULL,
	          target_user_id TEXT NOT NULL,
	          moderator_id TEXT NOT NULL DEFAULT '',
	          guild_id TEXT NOT NULL DEFAULT '',
	          reason TEXT NOT NULL DEFAULT '',
	          duration INTEGER,
	          created_at INTEGER NOT NULL,
	          expires_at INTEGER
	      );`
	if _, err = db.Exec(actionsSchema); err != nil {
		return nil, fmt.Errorf("failed to create moderation_actions table: %w", err)
	}

	rolesSchema := `CREATE TABLE IF NOT EXISTS user_roles (
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          role_id TEXT NOT NULL,
	          UNIQUE(guild_id, user_id, role_id)
	      );`
	if _, err = db.Exec(rolesSchema); err != nil {
		return nil, fmt.Errorf("failed to create user_roles table: %w", err)
	}

	guildsSchema := `CREATE TABLE IF NOT EXISTS guilds (
	          guild_id TEXT PRIMARY KEY
	      );`
	if _, err = db.Exec(guildsSchema); err != nil {
		return nil, fmt.Errorf("failed to create guilds table: %w", err)
	}

	return db, nil
}
