package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mod-helper/model"
	"mod-helper/moderation"
	"mod-helper/scanner"
	"mod-helper/utils/database/sanctions"
)

type fakeProvider struct {
	cfg        *model.Config
	reconciler *scanner.SanctionReconciler
}

func (f *fakeProvider) GetConfig() *model.Config                   { return f.cfg }
func (f *fakeProvider) GetReconciler() *scanner.SanctionReconciler { return f.reconciler }

func TestSchedulerStopTerminates(t *testing.T) {
	db, err := sanctions.Init(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	reconciler := scanner.NewSanctionReconciler(db, moderation.NewService(db), moderation.NewRoleApplier(nil), nil)
	s := NewScheduler(&fakeProvider{
		cfg:        &model.Config{ReconcileInterval: 3600},
		reconciler: reconciler,
	})

	s.Start()

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
