package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"profileupdater/lib/messaging/messages"
	"profileupdater/lib/messaging/publishing"
	"profileupdater/lib/messaging/routing"
	"profileupdater/lib/services/registration"
	"profileupdater/lib/utils/logging"
)

type handlers struct {
	store     *registration.Store
	publisher publishing.MessagePublisher
	logger    logging.Logger
}

// registerRequest is the upsert payload. Credentials are accepted here but
// never serialized back out; User hides them from JSON responses.
type registerRequest struct {
	TwitterID    string `json:"twitterID"`
	AtCoderID    string `json:"atcoderID"`
	UpdateBio    bool   `json:"bio"`
	UpdateBanner bool   `json:"banner"`
	Token        string `json:"token"`
	Secret       string `json:"secret"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *handlers) upsertUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.TwitterID == "" || req.AtCoderID == "" || req.Token == "" || req.Secret == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "twitterID, atcoderID, token and secret are required"})
		return
	}

	user := &registration.User{
		TwitterID:    req.TwitterID,
		AtCoderID:    req.AtCoderID,
		UpdateBio:    req.UpdateBio,
		UpdateBanner: req.UpdateBanner,
		Token:        req.Token,
		Secret:       req.Secret,
	}
	if err := h.store.Upsert(r.Context(), user); err != nil {
		h.logger.Error("REGISTRATION_UPSERT_FAILED", err, map[string]any{
			logging.TWITTER_ID: req.TwitterID,
		})
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to store registration"})
		return
	}

	h.logger.Info("REGISTRATION_UPSERTED", map[string]any{
		logging.TWITTER_ID: user.TwitterID,
		logging.ATCODER_ID: user.AtCoderID,
	})
	writeJSON(w, http.StatusOK, user)
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	twitterID := chi.URLParam(r, "twitterID")

	user, err := h.store.Get(r.Context(), twitterID)
	if errors.Is(err, registration.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "registration not found"})
		return
	}
	if err != nil {
		h.logger.Error("REGISTRATION_READ_FAILED", err, map[string]any{
			logging.TWITTER_ID: twitterID,
		})
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read registration"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	twitterID := chi.URLParam(r, "twitterID")

	err := h.store.Delete(r.Context(), twitterID)
	if errors.Is(err, registration.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "registration not found"})
		return
	}
	if err != nil {
		h.logger.Error("REGISTRATION_DELETE_FAILED", err, map[string]any{
			logging.TWITTER_ID: twitterID,
		})
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to delete registration"})
		return
	}

	h.logger.Info("REGISTRATION_DELETED", map[string]any{
		logging.TWITTER_ID: twitterID,
	})
	w.WriteHeader(http.StatusNoContent)
}

// refreshUser enqueues a one-off job for a single user, outside the
// weekly dispatch cycle
func (h *handlers) refreshUser(w http.ResponseWriter, r *http.Request) {
	twitterID := chi.URLParam(r, "twitterID")

	user, err := h.store.Get(r.Context(), twitterID)
	if errors.Is(err, registration.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "registration not found"})
		return
	}
	if err != nil {
		h.logger.Error("REGISTRATION_READ_FAILED", err, map[string]any{
			logging.TWITTER_ID: twitterID,
		})
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read registration"})
		return
	}

	msg := messages.NewProfileUpdateMessage(user)
	if err := h.publisher.PublishJSONMessage(r.Context(), routing.ProfileUpdate, msg); err != nil {
		h.logger.Error("REFRESH_PUBLISH_FAILED", err, map[string]any{
			logging.TWITTER_ID: twitterID,
			logging.QUEUE:      routing.ProfileUpdate,
		})
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to enqueue refresh"})
		return
	}

	h.logger.Info("REFRESH_ENQUEUED", map[string]any{
		logging.TWITTER_ID: twitterID,
		logging.QUEUE:      routing.ProfileUpdate,
	})
	w.WriteHeader(http.StatusAccepted)
}
