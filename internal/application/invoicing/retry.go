package invoicing

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/erp/invoicing/internal/domain/invoicing"
)

// AttemptFunc is one way of submitting a payload.
type AttemptFunc func(ctx context.Context, payload *domain.InvoicePayload) error

// Attempt is a named submission strategy.
type Attempt struct {
	Name string
	Do   AttemptFunc
}

// RetryPolicy is an explicit ordered list of submission attempt strategies
// sharing one timeout. The chain short-circuits on the first success; this
// replaces inline GET-then-POST-fallback control flow with a policy value.
type RetryPolicy struct {
	Attempts []Attempt
	Timeout  time.Duration
}

// DefaultSubmitTimeout bounds each submission attempt.
const DefaultSubmitTimeout = 30 * time.Second

// NewRetryPolicy builds a policy over the given attempts.
func NewRetryPolicy(timeout time.Duration, attempts ...Attempt) RetryPolicy {
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	return RetryPolicy{Attempts: attempts, Timeout: timeout}
}

// Execute runs the attempts in order until one succeeds. Every attempt gets
// its own timeout derived from ctx. When all attempts fail the errors are
// joined so no failure is hidden.
func (p RetryPolicy) Execute(ctx context.Context, payload *domain.InvoicePayload) error {
	if len(p.Attempts) == 0 {
		return errors.New("retry policy has no attempts")
	}

	var failures []error
	for _, attempt := range p.Attempts {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}
		attemptCtx, cancel := context.WithTimeout(ctx, p.Timeout)
		err := attempt.Do(attemptCtx, payload)
		cancel()
		if err == nil {
			return nil
		}
		failures = append(failures, fmt.Errorf("attempt %s: %w", attempt.Name, err))
	}
	return errors.Join(failures...)
}

// PolicySubmitter adapts a RetryPolicy to the InvoiceSubmitter port.
type PolicySubmitter struct {
	policy RetryPolicy
}

// NewPolicySubmitter wraps a policy as a submitter.
func NewPolicySubmitter(policy RetryPolicy) *PolicySubmitter {
	return &PolicySubmitter{policy: policy}
}

// Submit implements InvoiceSubmitter.
func (s *PolicySubmitter) Submit(ctx context.Context, payload *domain.InvoicePayload) error {
	return s.policy.Execute(ctx, payload)
}
