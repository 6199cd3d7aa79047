package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"electoral/internal/enrollment/models"
	identity "electoral/internal/identity/models"
	"electoral/internal/platform/upload"
	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/platform/httputil"
	authmw "electoral/pkg/platform/middleware/auth"
	"electoral/pkg/requestcontext"
)

// Service defines the enrollment and nomination operations.
type Service interface {
	CreateAgent(ctx context.Context, req *models.CreateAgentRequest) (*models.AgentResult, error)
	MarkVoter(ctx context.Context, req *models.MarkVoterRequest) error
	VoterMarkStatus(ctx context.Context, electionID id.ElectionID, voterID id.UserID) (string, error)
	CreateCandidate(ctx context.Context, req *models.CreateCandidateRequest) (*models.CandidateResult, error)
	UpdateCandidate(ctx context.Context, candidateID id.CandidateID, u models.CandidateUpdate) (*models.Candidate, error)
	SetNominationStatus(ctx context.Context, candidateID id.CandidateID, next models.NominationStatus) (*models.Candidate, error)
	DeleteCandidate(ctx context.Context, candidateID id.CandidateID) error
	GetCandidate(ctx context.Context, candidateID id.CandidateID) (*models.CandidateView, error)
	ListCandidates(ctx context.Context, electionID id.ElectionID, status *models.NominationStatus) ([]models.CandidateView, error)
	CountCandidates(ctx context.Context, electionID id.ElectionID) (models.StatusCounts, error)
}

// Uploader stores an uploaded form file and returns its key.
type Uploader interface {
	Save(ctx context.Context, r *http.Request, field, folder string) (string, error)
}

// ObjectDeleter removes uploads the service never saw.
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

// Register mounts enrollment routes. Callers must install RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/candidates", h.HandleListCandidates)
	r.Get("/candidates/counts", h.HandleCountCandidates)
	r.Get("/candidates/{candidateID}", h.HandleGetCandidate)

	r.Group(func(admin chi.Router) {
		admin.Use(authmw.RequireRoles(h.logger, identity.AdminRoles...))
		admin.Post("/agents", h.HandleCreateAgent)
		admin.Post("/candidates", h.HandleCreateCandidate)
		admin.Put("/candidates/{candidateID}", h.HandleUpdateCandidate)
		admin.Patch("/candidates/{candidateID}/status", h.HandleSetStatus)
		admin.Delete("/candidates/{candidateID}", h.HandleDeleteCandidate)
	})

	r.Group(func(agent chi.Router) {
		agent.Use(authmw.RequireRoles(h.logger, identity.RoleAgent.String()))
		agent.Post("/agents/marks", h.HandleMarkVoter)
		agent.Get("/agents/marks/{electionID}/{voterID}", h.HandleMarkStatus)
	})
}

// HandleCreateAgent handles the multipart POST /agents form with an optional
// "photo" file.
func (h *Handler) HandleCreateAgent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := upload.ParseForm(w, r); err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := agentRequestFromForm(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Profile.PhotoKey, err = h.uploader.Save(ctx, r, "photo", upload.ProfilePhotoFolder(identity.RoleAgent.PhotoFolder()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := h.service.CreateAgent(ctx, req)
	if err != nil {
		h.logFailure(ctx, "create agent failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

// HandleCreateCandidate handles the multipart POST /candidates form with the
// "candidate_photo" and "party_symbol" files.
func (h *Handler) HandleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := upload.ParseForm(w, r); err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := candidateRequestFromForm(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	keys, err := h.saveCandidateFiles(ctx, r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.PhotoKey, req.SymbolKey = keys.photo, keys.symbol

	res, err := h.service.CreateCandidate(ctx, req)
	if err != nil {
		h.logFailure(ctx, "create candidate failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

// HandleUpdateCandidate accepts JSON, or a multipart form that may replace
// the photo or the symbol.
func (h *Handler) HandleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := candidateParam(w, r)
	if !ok {
		return
	}

	var update models.CandidateUpdate
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := upload.ParseForm(w, r); err != nil {
			httputil.WriteError(w, err)
			return
		}
		in, err := candidateUpdateFromForm(r)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		if update, err = in.toUpdate(); err != nil {
			httputil.WriteError(w, err)
			return
		}
		keys, err := h.saveCandidateFiles(ctx, r)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		update.PhotoKey, update.SymbolKey = keys.photo, keys.symbol
	} else {
		in, ok := httputil.DecodeAndPrepare[candidateUpdateInput](w, r, h.logger, requestcontext.RequestID(ctx))
		if !ok {
			return
		}
		var err error
		if update, err = in.toUpdate(); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	c, err := h.service.UpdateCandidate(ctx, candidateID, update)
	if err != nil {
		h.logFailure(ctx, "update candidate failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

type statusRequest struct {
	Status string `json:"status"`

	parsed models.NominationStatus
}

func (r *statusRequest) Validate() error {
	s, err := models.ParseNominationStatus(r.Status)
	if err != nil {
		return err
	}
	r.parsed = s
	return nil
}

func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := candidateParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[statusRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.service.SetNominationStatus(ctx, candidateID, req.parsed)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := candidateParam(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCandidate(r.Context(), candidateID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Candidate deleted"})
}

func (h *Handler) HandleGetCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := candidateParam(w, r)
	if !ok {
		return
	}
	c, err := h.service.GetCandidate(r.Context(), candidateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// HandleListCandidates handles GET /candidates?election_id=&status=.
func (h *Handler) HandleListCandidates(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(r.URL.Query().Get("election_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var status *models.NominationStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s, err := models.ParseNominationStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		status = &s
	}
	list, err := h.service.ListCandidates(r.Context(), electionID, status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"candidates": list})
}

func (h *Handler) HandleCountCandidates(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(r.URL.Query().Get("election_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	counts, err := h.service.CountCandidates(r.Context(), electionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, counts)
}

func (h *Handler) HandleMarkVoter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.MarkVoterRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.MarkVoter(ctx, req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"election_id": req.ElectionID,
		"voter_id":    req.VoterID,
		"status":      req.Status,
	})
}

func (h *Handler) HandleMarkStatus(w http.ResponseWriter, r *http.Request) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	voterID, err := id.ParseUserID(chi.URLParam(r, "voterID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status, err := h.service.VoterMarkStatus(r.Context(), electionID, voterID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": status})
}

type candidateKeys struct {
	photo, symbol string
}

// saveCandidateFiles stores both nomination images. When the second upload
// fails the first is removed, since the service never sees it.
func (h *Handler) saveCandidateFiles(ctx context.Context, r *http.Request) (candidateKeys, error) {
	photo, err := h.uploader.Save(ctx, r, "candidate_photo", upload.ProfilePhotoFolder(identity.RoleCandidate.PhotoFolder()))
	if err != nil {
		return candidateKeys{}, err
	}
	symbol, err := h.uploader.Save(ctx, r, "party_symbol", upload.PartySymbolFolder)
	if err != nil {
		if photo != "" {
			if delErr := h.objects.Delete(context.WithoutCancel(ctx), photo); delErr != nil {
				h.logger.WarnContext(ctx, "failed to delete orphaned upload", "key", photo, "error", delErr)
			}
		}
		return candidateKeys{}, err
	}
	return candidateKeys{photo: photo, symbol: symbol}, nil
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"error", err,
		"user_id", requestcontext.UserID(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
}

func candidateParam(w http.ResponseWriter, r *http.Request) (id.CandidateID, bool) {
	candidateID, err := id.ParseCandidateID(chi.URLParam(r, "candidateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}
	return candidateID, true
}
