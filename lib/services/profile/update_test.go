package profile

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"profileupdater/lib/messaging/messages"
	"profileupdater/lib/services/atcoder"
	"profileupdater/lib/utils/logging"
	"profileupdater/lib/web/twitter"
)

type fakeProvider struct {
	snapshot *atcoder.Snapshot
	err      error
	calls    int
}

func (p *fakeProvider) Snapshot(ctx context.Context, atcoderID string) (*atcoder.Snapshot, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.snapshot, nil
}

type fakeTwitter struct {
	description string
	getUserErr  error

	updatedBio    string
	bioUpdated    bool
	bannerUpdated bool
	bannerBytes   []byte
	updateErr     error
}

func (f *fakeTwitter) GetUser(ctx context.Context, creds twitter.UserCredentials, userID string) (*twitter.User, error) {
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	return &twitter.User{ID: userID, Description: f.description}, nil
}

func (f *fakeTwitter) UpdateProfile(ctx context.Context, creds twitter.UserCredentials, description string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.bioUpdated = true
	f.updatedBio = description
	return nil
}

func (f *fakeTwitter) UpdateProfileBanner(ctx context.Context, creds twitter.UserCredentials, image []byte) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.bannerUpdated = true
	f.bannerBytes = image
	return nil
}

type fakeAudit struct {
	outcomes []Outcome
}

func (a *fakeAudit) Record(ctx context.Context, outcome Outcome) {
	a.outcomes = append(a.outcomes, outcome)
}

func testSnapshot(t *testing.T, rating int) *atcoder.Snapshot {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 44))
	for y := 0; y < 44; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 50, G: 50, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test graph: %v", err)
	}
	return &atcoder.Snapshot{
		Rating: rating,
		Tier:   atcoder.TierFor(rating),
		Graph:  buf.Bytes(),
	}
}

func testUpdater(provider *fakeProvider, tw *fakeTwitter, audit AuditSink) *Updater {
	return &Updater{
		Provider:    provider,
		Twitter:     tw,
		Audit:       audit,
		Logger:      logging.NewLogger("TEST"),
		SettleDelay: time.Nanosecond,
	}
}

func testMessage(bio, banner bool) messages.ProfileUpdateMessage {
	return messages.ProfileUpdateMessage{
		TwitterID: "12345",
		AtCoderID: "tester",
		Bio:       bio,
		Banner:    banner,
		Token:     "token",
		Secret:    "secret",
	}
}

func TestUpdate_BioAndBanner(t *testing.T) {
	provider := &fakeProvider{snapshot: testSnapshot(t, 1600)}
	tw := &fakeTwitter{description: "hello AtCoder 緑 (1200) world"}
	u := testUpdater(provider, tw, nil)

	if err := u.Update(context.Background(), testMessage(true, true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !tw.bioUpdated {
		t.Error("expected bio to be updated")
	}
	if tw.updatedBio != "hello AtCoder 青 (1600) world" {
		t.Errorf("unexpected rewritten bio %q", tw.updatedBio)
	}
	if !tw.bannerUpdated {
		t.Error("expected banner to be updated")
	}
	if len(tw.bannerBytes) == 0 {
		t.Error("expected non-empty banner image")
	}
}

func TestUpdate_ScrapeFailureFailsJob(t *testing.T) {
	provider := &fakeProvider{err: errors.New("page did not load")}
	tw := &fakeTwitter{}
	audit := &fakeAudit{}
	u := testUpdater(provider, tw, audit)

	err := u.Update(context.Background(), testMessage(true, true))
	if err == nil {
		t.Fatal("expected error when scrape fails")
	}
	if tw.bioUpdated || tw.bannerUpdated {
		t.Error("no profile writes should happen after a failed scrape")
	}
	if len(audit.outcomes) != 1 || audit.outcomes[0].Status != "failed" {
		t.Errorf("expected one failed outcome, got %+v", audit.outcomes)
	}
}

func TestUpdate_BioFlagDisabled(t *testing.T) {
	provider := &fakeProvider{snapshot: testSnapshot(t, 900)}
	tw := &fakeTwitter{description: "AtCoder 灰 (100)"}
	u := testUpdater(provider, tw, nil)

	if err := u.Update(context.Background(), testMessage(false, true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tw.bioUpdated {
		t.Error("bio must not be touched when the flag is off")
	}
	if !tw.bannerUpdated {
		t.Error("expected banner to be updated")
	}
}

func TestUpdate_BannerFlagDisabled(t *testing.T) {
	provider := &fakeProvider{snapshot: testSnapshot(t, 900)}
	tw := &fakeTwitter{description: "AtCoder 灰 (100)"}
	u := testUpdater(provider, tw, nil)

	if err := u.Update(context.Background(), testMessage(true, false)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tw.bannerUpdated {
		t.Error("banner must not be touched when the flag is off")
	}
	if !tw.bioUpdated {
		t.Error("expected bio to be updated")
	}
}

func TestUpdate_MarkerMissingSkipsBioWrite(t *testing.T) {
	provider := &fakeProvider{snapshot: testSnapshot(t, 2000)}
	tw := &fakeTwitter{description: "just a normal bio"}
	u := testUpdater(provider, tw, nil)

	if err := u.Update(context.Background(), testMessage(true, false)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tw.bioUpdated {
		t.Error("bio without a marker must not be rewritten")
	}
}

func TestUpdate_TwitterFailureFailsJob(t *testing.T) {
	provider := &fakeProvider{snapshot: testSnapshot(t, 1600)}
	tw := &fakeTwitter{
		description: "AtCoder 緑 (1200)",
		updateErr:   errors.New("connection refused"),
	}
	u := testUpdater(provider, tw, nil)

	if err := u.Update(context.Background(), testMessage(true, false)); err == nil {
		t.Fatal("expected error when the profile write fails")
	}
}

func TestUpdate_SuccessfulOutcomeRecorded(t *testing.T) {
	provider := &fakeProvider{snapshot: testSnapshot(t, 1600)}
	tw := &fakeTwitter{description: "AtCoder 緑 (1200)"}
	audit := &fakeAudit{}
	u := testUpdater(provider, tw, audit)

	if err := u.Update(context.Background(), testMessage(true, false)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(audit.outcomes) != 1 {
		t.Fatalf("expected one outcome, got %d", len(audit.outcomes))
	}
	outcome := audit.outcomes[0]
	if outcome.Status != "success" {
		t.Errorf("expected success status, got %s", outcome.Status)
	}
	if outcome.Rating != 1600 || outcome.Tier != "青" {
		t.Errorf("expected snapshot details in outcome, got %+v", outcome)
	}
}
