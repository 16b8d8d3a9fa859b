package telegram

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
	"github.com/myfrench/myfrench-bot/internal/service"
)

var errMalformedCallback = errors.New("malformed callback data")

type HandlerFunc func(ctx context.Context, chatID int64) error

func errInvalidCallback(data callbackData) error {
	return fmt.Errorf("%w: %q", errMalformedCallback, data.Raw)
}

// withErrorHandling logs handler errors. Errors the session already rendered
// and taps on outdated buttons are not reported to the learner again.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		switch {
		case err == nil:
		case service.IsUserError(err), errors.Is(err, errMalformedCallback):
			h.logger.Debug("ignored action",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		case isRendered(err):
			h.logger.Warn("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		default:
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.renderer.SendText(md(labelsFor(h.session.Language()).InternalError))
		}
		return nil
	}
}

// isRendered reports errors the session shows to the learner itself.
func isRendered(err error) bool {
	var (
		manifest *entities.ManifestError
		topicErr *entities.TopicLoadError
	)
	return errors.As(err, &manifest) || errors.As(err, &topicErr)
}
