package audio

import (
	"context"

	"convocast-go/internal/platform/logging"
)

// Strategy is one attempt in a fallback cascade. Run produces the target
// artifact or returns the reason the attempt is unusable.
type Strategy struct {
	Name string
	Run  func(ctx context.Context) error
}

// runFirstSuccess walks the cascade in order and stops at the first strategy
// that succeeds. It returns the last failure when every strategy is rejected.
func runFirstSuccess(ctx context.Context, logger *logging.Logger, tag, goal string, strategies []Strategy) error {
	var lastErr error
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Run(ctx); err != nil {
			lastErr = err
			logger.WarnTag(tag, "%s via %s failed: %v", goal, s.Name, err)
			continue
		}
		logger.DebugTag(tag, "%s via %s succeeded", goal, s.Name)
		return nil
	}
	return lastErr
}
