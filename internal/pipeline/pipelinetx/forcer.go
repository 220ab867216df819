// Package pipelinetx bridges quote and mission creation into the pipeline:
// both cascade a forced status change onto the linked entry inside the
// caller's transaction, so the document and the pipeline move together or
// not at all.
package pipelinetx

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"jobguinee_backend/internal/pipeline/domain"
)

// EntryTransitioner is the slice of the pipeline repository the forcer needs.
type EntryTransitioner interface {
	TransitionByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, to domain.Status) (from domain.Status, changed bool, err error)
}

// Forcer applies the cascade transitions the whitelist does not govern.
// Forced moves are idempotent: when the entry already sits at the target
// status nothing is written and changed is false.
type Forcer struct {
	repo   EntryTransitioner
	logger *slog.Logger
}

func New(repo EntryTransitioner, logger *slog.Logger) *Forcer {
	return &Forcer{repo: repo, logger: logger}
}

// ForceQuoteSentTx moves the entry to quote_sent when a quote goes out.
func (f *Forcer) ForceQuoteSentTx(ctx context.Context, tx pgx.Tx, pipelineID uuid.UUID) (bool, error) {
	return f.force(ctx, tx, pipelineID, domain.StatusQuoteSent)
}

// ForceMissionActiveTx moves the entry to mission_active when a mission is
// created. A second mission on the same entry finds it already there.
func (f *Forcer) ForceMissionActiveTx(ctx context.Context, tx pgx.Tx, pipelineID uuid.UUID) (bool, error) {
	return f.force(ctx, tx, pipelineID, domain.StatusMissionActive)
}

func (f *Forcer) force(ctx context.Context, tx pgx.Tx, pipelineID uuid.UUID, to domain.Status) (bool, error) {
	from, changed, err := f.repo.TransitionByIDTx(ctx, tx, pipelineID, to)
	if err != nil {
		return false, err
	}
	if changed {
		f.logger.Info("pipeline entry forced by cascade",
			slog.String("pipeline_id", pipelineID.String()),
			slog.String("from", string(from)),
			slog.String("to", string(to)))
	}
	return changed, nil
}
