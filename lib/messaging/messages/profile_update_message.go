package messages

import "profileupdater/lib/services/registration"

// ProfileUpdateMessage is one job: refresh one user's Twitter profile.
// It carries everything the worker needs, so a job never re-queries the
// registration store.
type ProfileUpdateMessage struct {
	TwitterID string `json:"twitterID"`
	AtCoderID string `json:"atcoderID"`
	Banner    bool   `json:"banner"`
	Bio       bool   `json:"bio"`
	Token     string `json:"token"`
	Secret    string `json:"secret"`
}

// NewProfileUpdateMessage builds a job message from a registration record
func NewProfileUpdateMessage(user *registration.User) ProfileUpdateMessage {
	return ProfileUpdateMessage{
		TwitterID: user.TwitterID,
		AtCoderID: user.AtCoderID,
		Banner:    user.UpdateBanner,
		Bio:       user.UpdateBio,
		Token:     user.Token,
		Secret:    user.Secret,
	}
}
