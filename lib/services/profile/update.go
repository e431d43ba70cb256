// Package profile orchestrates a single profile-update job:
// scrape, compose, rewrite, publish.
package profile

import (
	"context"
	"fmt"
	"time"

	"profileupdater/lib/messaging/messages"
	"profileupdater/lib/services/atcoder"
	"profileupdater/lib/services/banner"
	"profileupdater/lib/services/bio"
	"profileupdater/lib/utils/logging"
	"profileupdater/lib/utils/network"
	"profileupdater/lib/utils/retry"
	"profileupdater/lib/web/twitter"
)

// SettleDelay is the mandatory wait before scraping, so a burst of dispatched
// jobs does not hit the target site the instant they are enqueued
const SettleDelay = 10 * time.Second

// TwitterAPI is the subset of the Twitter client the pipeline uses
type TwitterAPI interface {
	GetUser(ctx context.Context, creds twitter.UserCredentials, userID string) (*twitter.User, error)
	UpdateProfile(ctx context.Context, creds twitter.UserCredentials, description string) error
	UpdateProfileBanner(ctx context.Context, creds twitter.UserCredentials, image []byte) error
}

// Updater runs profile-update jobs. All collaborators are injected; jobs
// share no mutable state, so one Updater serves any number of concurrent
// workers.
type Updater struct {
	Provider atcoder.SnapshotProvider
	Twitter  TwitterAPI
	Audit    AuditSink // optional
	Logger   logging.Logger

	// SettleDelay overrides the default pre-scrape wait; used by tests
	SettleDelay time.Duration
}

// Update processes one job. Any returned error means the whole job failed
// and the message should be redelivered; a rerun is safe because the bio
// rewrite targets a marker and the banner write is a full overwrite.
func (u *Updater) Update(ctx context.Context, msg messages.ProfileUpdateMessage) error {
	start := time.Now()

	delay := u.SettleDelay
	if delay == 0 {
		delay = SettleDelay
	}
	// Deliberately not tied to ctx: the settling delay is part of the job's
	// contract with the scrape target, not a cancellable wait
	time.Sleep(delay)

	snapshot, err := u.Provider.Snapshot(ctx, msg.AtCoderID)
	if err != nil {
		u.recordOutcome(ctx, msg, nil, start, err)
		return fmt.Errorf("scrape failed: %w", err)
	}

	u.Logger.Debug("SNAPSHOT_FETCHED", map[string]any{
		logging.ATCODER_ID: msg.AtCoderID,
		logging.RATING:     snapshot.Rating,
		logging.TIER:       snapshot.Tier.Label,
		logging.GRAPH_SIZE: len(snapshot.Graph),
	})

	creds := twitter.UserCredentials{Token: msg.Token, Secret: msg.Secret}

	if msg.Bio {
		if err := u.updateBio(ctx, creds, msg, snapshot); err != nil {
			u.recordOutcome(ctx, msg, snapshot, start, err)
			return fmt.Errorf("bio update failed: %w", err)
		}
	}

	if msg.Banner {
		if err := u.updateBanner(ctx, creds, snapshot); err != nil {
			u.recordOutcome(ctx, msg, snapshot, start, err)
			return fmt.Errorf("banner update failed: %w", err)
		}
	}

	u.recordOutcome(ctx, msg, snapshot, start, nil)
	return nil
}

func (u *Updater) updateBio(ctx context.Context, creds twitter.UserCredentials, msg messages.ProfileUpdateMessage, snapshot *atcoder.Snapshot) error {
	retryConfig := network.TransientNetworkErrorRetryConfig()

	user, err := retry.WithRetryForResult(ctx, retryConfig, func(attempt int) (*twitter.User, error) {
		return u.Twitter.GetUser(ctx, creds, msg.TwitterID)
	})
	if err != nil {
		return err
	}

	if !bio.ContainsMarker(user.Description) {
		u.Logger.Debug("BIO_MARKER_MISSING", map[string]any{
			logging.TWITTER_ID: msg.TwitterID,
		})
		return nil
	}

	rewritten := bio.Rewrite(user.Description, snapshot)
	return retry.WithRetry(ctx, retryConfig, func(attempt int) error {
		return u.Twitter.UpdateProfile(ctx, creds, rewritten)
	})
}

func (u *Updater) updateBanner(ctx context.Context, creds twitter.UserCredentials, snapshot *atcoder.Snapshot) error {
	image, err := banner.Compose(snapshot)
	if err != nil {
		return err
	}

	return retry.WithRetry(ctx, network.TransientNetworkErrorRetryConfig(), func(attempt int) error {
		return u.Twitter.UpdateProfileBanner(ctx, creds, image)
	})
}

func (u *Updater) recordOutcome(ctx context.Context, msg messages.ProfileUpdateMessage, snapshot *atcoder.Snapshot, start time.Time, jobErr error) {
	status := "success"
	errText := ""
	if jobErr != nil {
		status = "failed"
		errText = jobErr.Error()
	}

	updateStatus.WithLabelValues(status).Inc()
	updateDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if u.Audit == nil {
		return
	}

	outcome := Outcome{
		TwitterID: msg.TwitterID,
		AtCoderID: msg.AtCoderID,
		Status:    status,
		Error:     errText,
		Duration:  time.Since(start),
	}
	if snapshot != nil {
		outcome.Rating = snapshot.Rating
		outcome.Tier = snapshot.Tier.Label
	}
	u.Audit.Record(ctx, outcome)
}
