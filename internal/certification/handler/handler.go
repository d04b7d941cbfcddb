package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"accredit/internal/certification/issuance"
	"accredit/internal/certification/models"
	id "accredit/pkg/domain"
	dErrors "accredit/pkg/domain-errors"
	"accredit/pkg/platform/httputil"
	"accredit/pkg/requestcontext"
)

type ProgressService interface {
	Progress(ctx context.Context, userID id.UserID) ([]models.ProgressReport, error)
}

type IssuanceService interface {
	Claim(ctx context.Context, req issuance.ClaimRequest) (*issuance.ClaimResult, error)
}

type VerificationService interface {
	Verify(ctx context.Context, code string) (*models.PublicCredentialView, error)
	ListCredentials(ctx context.Context, subject id.UserID) ([]*models.Credential, error)
}

type TierLister interface {
	All() []models.RequirementProfile
}

// Handler wires the certification endpoints to their services.
type Handler struct {
	progress     ProgressService
	issuance     IssuanceService
	verification VerificationService
	tiers        TierLister
	logger       *slog.Logger
}

func New(progress ProgressService, issuance IssuanceService, verification VerificationService, tiers TierLister, logger *slog.Logger) *Handler {
	return &Handler{
		progress:     progress,
		issuance:     issuance,
		verification: verification,
		tiers:        tiers,
		logger:       logger,
	}
}

// RegisterPublic mounts the unauthenticated routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/tiers", h.HandleListTiers)
	r.Get("/verify/{code}", h.HandleVerify)
}

// RegisterSubject mounts the routes acting on the authenticated advocate.
// The router must already carry the auth middleware.
func (h *Handler) RegisterSubject(r chi.Router) {
	r.Get("/me/progress", h.HandleMyProgress)
	r.Post("/me/credentials", h.HandleClaim)
	r.Get("/me/credentials", h.HandleListCredentials)
}

// RegisterStaff mounts staff routes. The router must already carry the
// admin token middleware.
func (h *Handler) RegisterStaff(r chi.Router) {
	r.Get("/advocates/{subjectID}/progress", h.HandleAdvocateProgress)
}

func (h *Handler) HandleListTiers(w http.ResponseWriter, r *http.Request) {
	tiers := h.tiers.All()
	resp := make([]TierResponse, 0, len(tiers))
	for _, t := range tiers {
		resp = append(resp, toTierResponse(t))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleMyProgress(w http.ResponseWriter, r *http.Request) {
	userID := requestcontext.UserID(r.Context())
	if userID.IsNil() {
		httputil.WriteError(w, models.ErrNotAuthenticated)
		return
	}
	h.writeProgress(w, r, userID)
}

func (h *Handler) HandleAdvocateProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(chi.URLParam(r, "subjectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.writeProgress(w, r, userID)
}

func (h *Handler) writeProgress(w http.ResponseWriter, r *http.Request, userID id.UserID) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	reports, err := h.progress.Progress(ctx, userID)
	if err != nil {
		h.logFailure(ctx, "progress computation failed", requestID, userID, err)
		httputil.WriteError(w, err)
		return
	}

	resp := make([]ProgressResponse, 0, len(reports))
	for _, report := range reports {
		resp = append(resp, toProgressResponse(report))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, models.ErrNotAuthenticated)
		return
	}

	req, ok := httputil.DecodeAndPrepare[ClaimRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.issuance.Claim(ctx, issuance.ClaimRequest{
		Subject:          userID,
		TierKey:          models.TierKey(req.Tier),
		PaymentStatus:    req.ParsedPaymentStatus(),
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		h.logFailure(ctx, "credential claim failed", requestID, userID, err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "credential claimed",
		"request_id", requestID,
		"user_id", userID.String(),
		"tier", req.Tier,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) HandleListCredentials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, models.ErrNotAuthenticated)
		return
	}

	creds, err := h.verification.ListCredentials(ctx, userID)
	if err != nil {
		h.logFailure(ctx, "credential listing failed", requestcontext.RequestID(ctx), userID, err)
		httputil.WriteError(w, err)
		return
	}

	resp := make([]*CredentialSummary, 0, len(creds))
	for _, c := range creds {
		resp = append(resp, toCredentialSummary(c))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleVerify answers every miss with the same 404 body so the response
// leaks nothing about why a code did not resolve.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.verification.Verify(ctx, chi.URLParam(r, "code"))
	if err != nil {
		h.logger.ErrorContext(ctx, "verification lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if view == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "credential not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) logFailure(ctx context.Context, msg, requestID string, userID id.UserID, err error) {
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestID,
		"user_id", userID.String(),
		"error", err,
	)
}
