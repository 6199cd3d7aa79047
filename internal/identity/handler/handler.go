package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"electoral/internal/identity/models"
	"electoral/internal/platform/upload"
	id "electoral/pkg/domain"
	"electoral/pkg/platform/httputil"
	authmw "electoral/pkg/platform/middleware/auth"
	"electoral/pkg/requestcontext"
)

// Service defines the profile operations exposed over HTTP.
type Service interface {
	GetProfile(ctx context.Context, userID id.UserID) (*models.ProfileView, error)
	SearchByVoterID(ctx context.Context, voterID string) (*models.ProfileView, error)
	UpdateProfile(ctx context.Context, userID id.UserID, p models.Profile) (*models.ProfileView, error)
}

// Uploader stores an uploaded form file and returns its key.
type Uploader interface {
	Save(ctx context.Context, r *http.Request, field, folder string) (string, error)
}

// ObjectDeleter removes uploads whose update failed.
type ObjectDeleter interface {
	Delete(ctx context.Context, key string) error
}

type Handler struct {
	service  Service
	uploader Uploader
	objects  ObjectDeleter
	logger   *slog.Logger
}

func New(service Service, uploader Uploader, objects ObjectDeleter, logger *slog.Logger) *Handler {
	return &Handler{service: service, uploader: uploader, objects: objects, logger: logger}
}

// Register mounts profile endpoints. Callers must install RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me", h.HandleGetProfile)
	r.Put("/me", h.HandleUpdateProfile)
	r.With(authmw.RequireRoles(h.logger, append([]string{string(models.RoleAgent)}, models.AdminRoles...)...)).
		Get("/voters/search", h.HandleSearchVoter)
}

func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetProfile(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleUpdateProfile accepts JSON, or a multipart form carrying a "photo" file.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	requestID := requestcontext.RequestID(ctx)

	var profile models.Profile
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := upload.ParseForm(w, r); err != nil {
			httputil.WriteError(w, err)
			return
		}
		in, err := models.ProfileInputFromForm(r.FormValue)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		profile = in.Profile()
		key, err := h.uploader.Save(ctx, r, "photo", upload.ProfilePhotoFolder(photoFolder(requestcontext.Roles(ctx))))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		profile.PhotoKey = key
	} else {
		in, ok := httputil.DecodeAndPrepare[models.ProfileInput](w, r, h.logger, requestID)
		if !ok {
			return
		}
		profile = in.Profile()
	}

	view, err := h.service.UpdateProfile(ctx, userID, profile)
	if err != nil {
		h.discard(ctx, profile.PhotoKey)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleSearchVoter(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.SearchByVoterID(r.Context(), r.URL.Query().Get("voter_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := h.objects.Delete(context.WithoutCancel(ctx), key); err != nil {
		h.logger.WarnContext(ctx, "failed to delete photo",
			"key", key,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

// photoFolder picks the folder of the caller's most specific role; plain
// voters land in the voter folder.
func photoFolder(roles []string) string {
	folder := models.RoleVoter.PhotoFolder()
	for _, r := range roles {
		if role := models.RoleName(r); role != models.RoleVoter {
			return role.PhotoFolder()
		}
	}
	return folder
}
