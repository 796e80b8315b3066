package replay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/congo-pay/txreplay/internal/csvio"
	"github.com/congo-pay/txreplay/internal/ledger"
	"github.com/congo-pay/txreplay/internal/logging"
	"github.com/congo-pay/txreplay/internal/notification"
)

// Service replays CSV transaction feeds. Every call to Run starts from an
// empty ledger; nothing is shared between runs.
type Service struct {
	logger    *slog.Logger
	notifier  notification.Notifier
	snapshots ledger.SnapshotStore
}

// NewService constructs a replay service. notifier and snapshots may be nil.
func NewService(logger *slog.Logger, notifier notification.Notifier, snapshots ledger.SnapshotStore) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{logger: logger, notifier: notifier, snapshots: snapshots}
}

// Result is the outcome of a successful run.
type Result struct {
	RunID    uuid.UUID
	Accounts []ledger.AccountState
	Stats    ledger.Stats
	Duration time.Duration
}

// Run parses input and folds it into a fresh ledger. The returned error is
// the first malformed row or header problem; no accounts are returned with it.
func (s *Service) Run(ctx context.Context, input io.Reader) (Result, error) {
	runID := uuid.New()
	start := time.Now()

	accounts, stats, err := ledger.Replay(csvio.NewReader(input), s.logger)
	if err != nil {
		s.logger.Warn("replay aborted", slog.String("run_id", runID.String()), slog.Any("error", err))
		s.notify(ctx, notification.Message{
			Kind:        notification.KindReplayFailed,
			Destination: runID.String(),
			Body:        err.Error(),
		})
		return Result{RunID: runID}, err
	}

	res := Result{RunID: runID, Accounts: accounts, Stats: stats, Duration: time.Since(start)}
	s.logger.Info("replay completed",
		slog.String("run_id", runID.String()),
		slog.Int("accounts", len(accounts)),
		slog.Int("records", stats.Records),
		slog.Int("ignored", stats.Ignored),
		slog.Duration("duration", res.Duration),
	)

	if s.snapshots != nil {
		if err := s.snapshots.SaveSnapshot(ctx, runID, accounts); err != nil {
			s.logger.Error("snapshot export failed", slog.String("run_id", runID.String()), slog.Any("error", err))
		}
	}
	s.notify(ctx, notification.Message{
		Kind:        notification.KindReplayCompleted,
		Destination: runID.String(),
		Body:        fmt.Sprintf("%d accounts from %d records (%d ignored)", len(accounts), stats.Records, stats.Ignored),
	})

	return res, nil
}

// Process runs input and renders either the account table or the single
// error line to output. The run error is returned after it has been rendered
// so callers can pick an exit status; write failures are returned wrapped.
func (s *Service) Process(ctx context.Context, input io.Reader, output io.Writer) (Result, error) {
	res, runErr := s.Run(ctx, input)
	if runErr != nil {
		if err := csvio.WriteError(output, runErr); err != nil {
			return res, fmt.Errorf("write error line: %w", err)
		}
		return res, runErr
	}
	if err := csvio.WriteAccounts(output, res.Accounts); err != nil {
		return res, fmt.Errorf("write accounts: %w", err)
	}
	return res, nil
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Warn("notification failed", slog.String("kind", msg.Kind), slog.Any("error", err))
	}
}
