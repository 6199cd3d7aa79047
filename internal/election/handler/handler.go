package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"electoral/internal/election/models"
	identity "electoral/internal/identity/models"
	id "electoral/pkg/domain"
	"electoral/pkg/platform/httputil"
	authmw "electoral/pkg/platform/middleware/auth"
	"electoral/pkg/requestcontext"
)

// Service defines election administration and discovery operations.
type Service interface {
	CreateElection(ctx context.Context, req *models.CreateElectionRequest) (*models.Election, error)
	GetElection(ctx context.Context, electionID id.ElectionID) (*models.Election, error)
	ListElections(ctx context.Context) ([]models.Election, error)
	ElectionType(ctx context.Context, electionID id.ElectionID) (models.ElectionType, error)
	ChangeStatus(ctx context.Context, electionID id.ElectionID, next models.Status) (*models.Election, error)
	CreateWard(ctx context.Context, req *models.CreateWardRequest) (*models.Ward, error)
	ListWards(ctx context.Context, electionID id.ElectionID) ([]models.Ward, error)
	DeleteWard(ctx context.Context, electionID id.ElectionID, wardID id.WardID) error
	AllocateBooths(ctx context.Context, req *models.AllocateBoothsRequest) (int, error)
	CreateWardBooth(ctx context.Context, req *models.CreateWardBoothRequest) (*models.ElectionBooth, error)
	ListElectionBooths(ctx context.Context, electionID id.ElectionID, wardID *id.WardID) ([]models.ElectionBooth, error)
	RemoveElectionBooth(ctx context.Context, electionID id.ElectionID, boothID id.ElectionBoothID) error
	AvailableBooths(ctx context.Context, electionID id.ElectionID, filter models.BoothFilter) ([]models.Booth, error)
	AssemblyConstituencies(ctx context.Context, electionID id.ElectionID) ([]string, error)
	BoothHierarchy(ctx context.Context) ([]models.HierarchyRow, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts election routes. Callers must install RequireAuth; writes
// are further limited to administrators.
func (h *Handler) Register(r chi.Router) {
	r.Get("/elections", h.HandleListElections)
	r.Get("/elections/{electionID}", h.HandleGetElection)
	r.Get("/elections/{electionID}/type", h.HandleElectionType)
	r.Get("/elections/{electionID}/wards", h.HandleListWards)
	r.Get("/elections/{electionID}/booths", h.HandleListElectionBooths)
	r.Get("/elections/{electionID}/available-booths", h.HandleAvailableBooths)
	r.Get("/elections/{electionID}/assembly-constituencies", h.HandleAssemblyConstituencies)
	r.Get("/booths/hierarchy", h.HandleBoothHierarchy)

	r.Group(func(admin chi.Router) {
		admin.Use(authmw.RequireRoles(h.logger, identity.AdminRoles...))
		admin.Post("/elections", h.HandleCreateElection)
		admin.Patch("/elections/{electionID}/status", h.HandleChangeStatus)
		admin.Post("/wards", h.HandleCreateWard)
		admin.Delete("/elections/{electionID}/wards/{wardID}", h.HandleDeleteWard)
		admin.Post("/election-booths/allocate", h.HandleAllocateBooths)
		admin.Post("/election-booths", h.HandleCreateWardBooth)
		admin.Delete("/elections/{electionID}/booths/{boothID}", h.HandleRemoveElectionBooth)
	})
}

func electionParam(w http.ResponseWriter, r *http.Request) (id.ElectionID, bool) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "electionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}
	return electionID, true
}

func (h *Handler) HandleCreateElection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.CreateElectionRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	e, err := h.service.CreateElection(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) HandleListElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.service.ListElections(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"elections": elections})
}

func (h *Handler) HandleGetElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := electionParam(w, r)
	if !ok {
		return
	}
	e, err := h.service.GetElection(r.Context(), electionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) HandleElectionType(w http.ResponseWriter, r *http.Request) {
	electionID, ok := electionParam(w, r)
	if !ok {
		return
	}
	t, err := h.service.ElectionType(r.Context(), electionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"election_id": electionID, "election_type": t})
}

type statusRequest struct {
	Status string `json:"status"`

	parsed models.Status
}

func (r *statusRequest) Validate() error {
	s, err := models.ParseStatus(r.Status)
	if err != nil {
		return err
	}
	r.parsed = s
	return nil
}

func (h *Handler) HandleChangeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	electionID, ok := electionParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[statusRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	e, err := h.service.ChangeStatus(ctx, electionID, req.parsed)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "election status changed",
		"election_id", electionID,
		"status", e.Status,
		"user_id", requestcontext.UserID(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) HandleCreateWard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.CreateWardRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	ward, err := h.service.CreateWard(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, ward)
}

func (h *Handler) HandleListWards(w http.ResponseWriter, r *http.Request) {
	electionID, ok := electionParam(w, r)
	if !ok {
		return
	}
	wards, err := h.service.ListWards(r.Context(), electionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"wards": wards})
}

func (h *Handler) HandleDeleteWard(w http.ResponseWriter, r *http.Request) {
	electionID, ok := electionParam(w, r)
	if !ok {
		return
	}
	wardID, err := id.ParseWardID(chi.URLParam(r, "wardID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteWard(r.Context(), electionID, wardID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Ward deleted"})
}

func (h *Handler) HandleAllocateBooths(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.AllocateBoothsRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	n, err := h.service.AllocateBooths(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]int{"allocated": n})
}

func (h *Handler) HandleCreateWardBooth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.CreateWardBoothRequest](w, r, h.logger, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	booth, err := h.service.CreateWardBooth(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, booth)
}

func (h *Handler) HandleListElectionBooths(w http.ResponseWriter, r *http.Request) {
	electionID, ok := electionParam(w, r)
	if !ok {
		return
	}
	wardID, err := id.ParseOptionalWardID(r.URL.Query().Get("ward_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	booths, err := h.service.ListElectionBooths(r.Context(), electionID, wardID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"booths": booths})
}

func (h *Handler) HandleRemoveElectionBooth(w http.ResponseWriter, r *http.Request) {
	electionID, ok := electionParam(w, r)
	if !ok {
		return
	}
	boothID, err := id.ParseElectionBoothID(chi.URLParam(r, "boothID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.RemoveElectionBooth(r.Context(), electionID, boothID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Election booth removed"})
}

// HandleAvailableBooths lists master booths in the election's scope that are
// not yet allocated, by ?ac_name_no= or ?ward_id=.
func (h *Handler) HandleAvailableBooths(w http.ResponseWriter, r *http.Request) {
	electionID, ok := electionParam(w, r)
	if !ok {
		return
	}
	wardID, err := id.ParseOptionalWardID(r.URL.Query().Get("ward_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	booths, err := h.service.AvailableBooths(r.Context(), electionID, models.BoothFilter{
		ACNameNo: r.URL.Query().Get("ac_name_no"),
		WardID:   wardID,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"booths": booths})
}

func (h *Handler) HandleAssemblyConstituencies(w http.ResponseWriter, r *http.Request) {
	electionID, ok := electionParam(w, r)
	if !ok {
		return
	}
	acs, err := h.service.AssemblyConstituencies(r.Context(), electionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"assembly_constituencies": acs})
}

func (h *Handler) HandleBoothHierarchy(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.BoothHierarchy(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"hierarchy": rows})
}
