package meadow

import (
	"context"
	"time"

	"github.com/gekko3d/meadow/grassrt/rt/tuning"
)

// TuningModule serves the staged settings over a websocket at Addr + "/ws".
type TuningModule struct {
	Addr string
}

func (m TuningModule) Install(a *App, cmd *Commands) {
	logger := a.Logger()
	srv := tuning.NewServer(settingsStage(a, cmd), logger)
	cmd.AddResources(srv)

	go func() {
		if err := srv.ListenAndServe(m.Addr); err != nil {
			logger.Errorf("tuning server: %v", err)
		}
	}()

	cmd.OnShutdown(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warnf("tuning server shutdown: %v", err)
		}
	})
}
