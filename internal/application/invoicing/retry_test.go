package invoicing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/erp/invoicing/internal/domain/invoicing"
)

func TestRetryPolicy_Execute(t *testing.T) {
	ctx := context.Background()
	payload := &domain.InvoicePayload{OrderCode: "SO1"}

	t.Run("short-circuits on first success", func(t *testing.T) {
		calls := []string{}
		policy := NewRetryPolicy(time.Second,
			Attempt{Name: "update", Do: func(context.Context, *domain.InvoicePayload) error {
				calls = append(calls, "update")
				return nil
			}},
			Attempt{Name: "create", Do: func(context.Context, *domain.InvoicePayload) error {
				calls = append(calls, "create")
				return nil
			}},
		)

		require.NoError(t, policy.Execute(ctx, payload))
		assert.Equal(t, []string{"update"}, calls)
	})

	t.Run("falls through to the next attempt on failure", func(t *testing.T) {
		calls := []string{}
		policy := NewRetryPolicy(time.Second,
			Attempt{Name: "update", Do: func(context.Context, *domain.InvoicePayload) error {
				calls = append(calls, "update")
				return errors.New("not found")
			}},
			Attempt{Name: "create", Do: func(context.Context, *domain.InvoicePayload) error {
				calls = append(calls, "create")
				return nil
			}},
		)

		require.NoError(t, policy.Execute(ctx, payload))
		assert.Equal(t, []string{"update", "create"}, calls)
	})

	t.Run("joins every failure when all attempts fail", func(t *testing.T) {
		policy := NewRetryPolicy(time.Second,
			Attempt{Name: "update", Do: func(context.Context, *domain.InvoicePayload) error {
				return errors.New("404")
			}},
			Attempt{Name: "create", Do: func(context.Context, *domain.InvoicePayload) error {
				return errors.New("500")
			}},
		)

		err := policy.Execute(ctx, payload)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "attempt update")
		assert.Contains(t, err.Error(), "404")
		assert.Contains(t, err.Error(), "attempt create")
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("no attempts is an error", func(t *testing.T) {
		policy := NewRetryPolicy(time.Second)
		require.Error(t, policy.Execute(ctx, payload))
	})

	t.Run("each attempt gets its own deadline", func(t *testing.T) {
		policy := NewRetryPolicy(50*time.Millisecond,
			Attempt{Name: "slow", Do: func(attemptCtx context.Context, _ *domain.InvoicePayload) error {
				deadline, ok := attemptCtx.Deadline()
				require.True(t, ok)
				assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 20*time.Millisecond)
				return errors.New("fail anyway")
			}},
		)
		require.Error(t, policy.Execute(ctx, payload))
	})

	t.Run("cancelled context stops the chain", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		called := false
		policy := NewRetryPolicy(time.Second,
			Attempt{Name: "update", Do: func(context.Context, *domain.InvoicePayload) error {
				called = true
				return nil
			}},
		)

		err := policy.Execute(cancelled, payload)
		require.Error(t, err)
		assert.False(t, called)
	})

	t.Run("zero timeout falls back to the default", func(t *testing.T) {
		policy := NewRetryPolicy(0)
		assert.Equal(t, DefaultSubmitTimeout, policy.Timeout)
	})
}

func TestPolicySubmitter(t *testing.T) {
	submitted := false
	policy := NewRetryPolicy(time.Second,
		Attempt{Name: "create", Do: func(context.Context, *domain.InvoicePayload) error {
			submitted = true
			return nil
		}},
	)

	var submitter InvoiceSubmitter = NewPolicySubmitter(policy)
	require.NoError(t, submitter.Submit(context.Background(), &domain.InvoicePayload{}))
	assert.True(t, submitted)
}
