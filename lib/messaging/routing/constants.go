package routing

// Queue routing constants for all async processing
const (
	// ProfileUpdate carries one job message per registered user per dispatch
	ProfileUpdate = "profile_update"

	// ProfileUpdateDead receives messages that exceeded the redelivery
	// ceiling or were classified as permanently failed; held for manual
	// inspection (see tools/dlq-inspect)
	ProfileUpdateDead = "profile_update_dead"
)

// MaxDeliveries is the redelivery ceiling for the profile update queue.
// After this many deliveries the broker diverts the message verbatim to
// the dead-letter queue.
const MaxDeliveries = 5
