package bot

import (
	"log"
	"sync"
	"time"

	"mod-helper/model"
	"mod-helper/scanner"
)

// BotProvider defines the methods the scheduler needs from the Bot.
type BotProvider interface {
	GetConfig() *model.Config
	GetReconciler() *scanner.SanctionReconciler
}

// Scheduler manages all scheduled tasks.
type Scheduler struct {
	bot  BotProvider
	done chan struct{}
	wg   sync.WaitGroup
}

// NewScheduler creates a new scheduler.
func NewScheduler(bot BotProvider) *Scheduler {
	return &Scheduler{
		bot:  bot,
		done: make(chan struct{}),
	}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.startSanctionReconciler()
}

// Stop terminates all scheduled tasks gracefully. In-flight ticks are not
// cancelled; we only stop scheduling new ones.
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	close(s.done)
	s.wg.Wait()
	log.Println("Scheduler stopped.")
}

func (s *Scheduler) startSanctionReconciler() {
	defer s.wg.Done()

	interval := time.Duration(s.bot.GetConfig().ReconcileInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[Scheduler] Sanction reconciliation running every %s", interval)
	for {
		select {
		case <-ticker.C:
			s.bot.GetReconciler().Tick()
		case <-s.done:
			return
		}
	}
}
