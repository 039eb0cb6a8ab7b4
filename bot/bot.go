package bot

import (
	"log"
	"sync/atomic"

	"mod-helper/commands"
	"mod-helper/config"
	"mod-helper/model"
	"mod-helper/moderation"
	"mod-helper/scanner"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	DB                 *sqlx.DB
	Service            *moderation.Service
	Applier            *moderation.RoleApplier
	Reconciler         *scanner.SanctionReconciler
	config             atomic.Value // *model.Config
	scheduler          *Scheduler
}

func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentGuildModeration
	// The state cache is what gives the reconciliation loop its guild and
	// member visibility.
	dg.StateEnabled = true

	b := &Bot{
		Session: dg,
		DB:      db,
		Service: moderation.NewService(db),
		Applier: moderation.NewRoleApplier(dg),
	}
	b.Reconciler = scanner.NewSanctionReconciler(db, b.Service, b.Applier, scanner.SessionBrowser{Session: dg})
	b.config.Store(cfg)
	b.scheduler = NewScheduler(b)
	return b, nil
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetDB() *sqlx.DB {
	return b.DB
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func (b *Bot) GetReconciler() *scanner.SanctionReconciler {
	return b.Reconciler
}

func (b *Bot) GetScheduler() *Scheduler {
	return b.scheduler
}

func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	b.scheduler.Stop()
	b.Session.Close()
	if err := b.DB.Close(); err != nil {
		log.Printf("Error closing sanction database: %v", err)
	}
}

// RefreshCommands overwrites the application's global command set.
func (b *Bot) RefreshCommands() {
	cmds := commands.GenerateCommands()
	log.Printf("Registering %d application commands...", len(cmds))
	registeredCmds, err := b.Session.ApplicationCommandBulkOverwrite(b.GetConfig().AppID, "", cmds)
	if err != nil {
		log.Printf("cannot update application commands: %v", err)
		return
	}
	b.RegisteredCommands = registeredCmds
}

// ReloadConfig re-reads the environment and guard config. Role-id lists are
// re-read on every check anyway, so this only matters for the rest.
func (b *Bot) ReloadConfig() error {
	log.Println("Reloading configuration...")
	newCfg, err := config.Load()
	if err != nil {
		log.Printf("Error reloading config: %v", err)
		return err
	}
	b.config.Store(newCfg)
	log.Println("Configuration reloaded successfully.")
	return nil
}
