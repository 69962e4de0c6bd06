package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"zabbix-host-import/internal/types"
)

// State reports where the staged-file workflow currently stands. The
// state is derived from the staging store, so a new process picks up a
// pending preview left by an earlier one.
func (s Service) State() types.WorkflowState {
	if s.Staging.Exists() {
		return types.WorkflowPreviewing
	}
	return types.WorkflowAwaitingUpload
}

// Cancel discards a pending staged file, if any.
func (s Service) Cancel(ctx context.Context) (CancelResult, error) {
	if !s.Staging.Exists() {
		return CancelResult{Removed: false, State: types.WorkflowAwaitingUpload}, nil
	}
	if err := s.Staging.Delete(); err != nil {
		return CancelResult{}, err
	}
	log.Ctx(ctx).Info().Msg("staged host file discarded")
	return CancelResult{Removed: true, State: types.WorkflowAwaitingUpload}, nil
}
