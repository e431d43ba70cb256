// Package dispatch fans one profile-update job per registered user out to
// the work queue.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"profileupdater/lib/messaging/messages"
	"profileupdater/lib/messaging/publishing"
	"profileupdater/lib/messaging/routing"
	"profileupdater/lib/services/registration"
	"profileupdater/lib/utils/logging"
)

// RegistrationLister is the single read the dispatcher performs against the
// registration store
type RegistrationLister interface {
	ListAll(ctx context.Context) ([]registration.User, error)
}

type Dispatcher struct {
	Store     RegistrationLister
	Publisher publishing.MessagePublisher
	Logger    logging.Logger
}

// Run enumerates every registration and publishes one job message per record.
// An empty store is a successful run with zero emissions. A failed scan fails
// the whole run. Per-record publish failures do not stop the fan-out: every
// record is attempted, and the accumulated failures are reported together so
// the operator sees exactly which users were skipped.
func (d *Dispatcher) Run(ctx context.Context) error {
	dispatchID := uuid.NewString()

	users, err := d.Store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("registration scan failed: %w", err)
	}

	var failures []error
	sent := 0
	for _, user := range users {
		msg := messages.NewProfileUpdateMessage(&user)
		if err := d.Publisher.PublishJSONMessage(ctx, routing.ProfileUpdate, msg); err != nil {
			failures = append(failures, fmt.Errorf("user %s: %w", user.TwitterID, err))
			continue
		}
		sent++
	}

	dispatchedTotal.Add(float64(sent))

	d.Logger.Info("DISPATCH_COMPLETE", map[string]any{
		logging.DISPATCH_ID: dispatchID,
		logging.TOTAL:       len(users),
		logging.SUCCESSFUL:  sent,
		logging.FAILED:      len(failures),
	})

	if len(failures) > 0 {
		return fmt.Errorf("dispatch %s: %d of %d jobs failed to enqueue: %w",
			dispatchID, len(failures), len(users), errors.Join(failures...))
	}
	return nil
}
