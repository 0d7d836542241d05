package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roadmap-backend/pkg/errors"
)

type testCommand struct {
	Fail bool
}

func (c testCommand) Validate() error {
	if c.Fail {
		return errors.NewValidationError("invalid command")
	}
	return nil
}

func TestCommandBus(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches to the registered handler", func(t *testing.T) {
		commandBus := NewCommandBus()
		handled := false

		err := commandBus.Register(testCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			handled = true
			return nil
		}))
		require.NoError(t, err)

		require.NoError(t, commandBus.Send(ctx, testCommand{}))
		assert.True(t, handled)
	})

	t.Run("validation failures never reach the handler", func(t *testing.T) {
		commandBus := NewCommandBus()
		handled := false

		require.NoError(t, commandBus.Register(testCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			handled = true
			return nil
		})))

		err := commandBus.Send(ctx, testCommand{Fail: true})
		require.Error(t, err)
		assert.False(t, handled)
	})

	t.Run("unregistered command type fails", func(t *testing.T) {
		commandBus := NewCommandBus()

		err := commandBus.Send(ctx, testCommand{})
		assert.ErrorIs(t, err, ErrHandlerNotFound)
	})

	t.Run("double registration fails", func(t *testing.T) {
		commandBus := NewCommandBus()
		handler := CommandHandlerFunc(func(ctx context.Context, cmd Command) error { return nil })

		require.NoError(t, commandBus.Register(testCommand{}, handler))
		assert.Error(t, commandBus.Register(testCommand{}, handler))
	})
}

func TestPipeline(t *testing.T) {
	ctx := context.Background()

	t.Run("middleware wraps outermost first", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next CommandHandler) CommandHandler {
				return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
					order = append(order, name)
					return next.Handle(ctx, cmd)
				})
			}
		}

		pipeline := NewPipeline(mw("outer"), mw("inner"))
		handler := pipeline.Execute(CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			order = append(order, "handler")
			return nil
		}))

		require.NoError(t, handler.Handle(ctx, testCommand{}))
		assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	})

	t.Run("logging middleware passes errors through", func(t *testing.T) {
		pipeline := NewPipeline(LoggingMiddleware(zap.NewNop()))
		wantErr := errors.NewInternalError("boom")

		handler := pipeline.Execute(CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			return wantErr
		}))

		err := handler.Handle(ctx, testCommand{})
		assert.Equal(t, wantErr, err)
	})
}
