package migrations

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/services"
	"github.com/sirupsen/logrus"
)

type RunOptions struct {
	// Reset forgets previously completed migrations on the network and runs everything again
	Reset bool
	// RunID defaults to a random uuid
	RunID string
}

// RunResult lists the migrations that ran and the ones skipped as already completed
type RunResult struct {
	RunID   string
	Applied []string
	Skipped []string
}

// Runner applies migrations one at a time in ascending number order
type Runner struct {
	migrations []Migration
	history    services.MigrationService
}

func NewRunner(history services.MigrationService, migrations ...Migration) *Runner {
	sorted := append([]Migration(nil), migrations...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Number() < sorted[j].Number()
	})
	return &Runner{migrations: sorted, history: history}
}

// Run stops at the first failing migration; completed ones stay recorded.
func (r *Runner) Run(ctx context.Context, env Env, opts RunOptions) (RunResult, error) {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	result := RunResult{RunID: runID}

	log := env.logger().WithFields(logrus.Fields{"network": env.Network, "run_id": runID})
	env.Logger = log

	if opts.Reset {
		if err := r.history.Reset(env.Network); err != nil {
			return result, fmt.Errorf("failed to reset migrations: %w", err)
		}
		log.Info("Migration history reset")
	}

	last, err := r.history.LastCompleted(env.Network)
	if err != nil {
		return result, fmt.Errorf("failed to read migration history: %w", err)
	}

	for _, m := range r.migrations {
		label := fmt.Sprintf("%d_%s", m.Number(), m.Name())
		if m.Number() <= last {
			log.WithField("migration", label).Debug("Skipping completed migration")
			result.Skipped = append(result.Skipped, label)
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		log.WithField("migration", label).Info("Running migration")
		if err := m.Run(ctx, env); err != nil {
			return result, fmt.Errorf("migration %s failed: %w", label, err)
		}
		if err := r.history.RecordCompleted(runID, env.Network, m.Number(), m.Name()); err != nil {
			return result, fmt.Errorf("failed to record migration %s: %w", label, err)
		}
		result.Applied = append(result.Applied, label)
	}

	if len(result.Applied) == 0 {
		log.Info("Network is up to date")
	}
	return result, nil
}
