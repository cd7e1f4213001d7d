// Package http implements the REST API for Hunter Hub.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/arise-hub/hunter-hub/internal/application/command"
	"github.com/arise-hub/hunter-hub/internal/application/query"
	"github.com/arise-hub/hunter-hub/internal/application/saga"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Hunter Hub API",
		"version":     "v1",
		"description": "REST API for Hunter Hub - Arise",
		"endpoints": map[string]string{
			"health":       "/health",
			"register":     "/api/v1/accounts",
			"profile":      "/api/v1/accounts/{id}/profile",
			"achievements": "/api/v1/accounts/{id}/achievements",
			"progress":     "/api/v1/accounts/{id}/progress",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleMetrics handles GET /metrics.
// Basic server metrics as JSON until a metrics backend is chosen.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"uptime_seconds": s.Uptime().Seconds(),
		"running":        s.IsRunning(),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type registerRequest struct {
	Name       string `json:"name"`
	Credential string `json:"credential"`
}

// handleRegister handles POST /api/v1/accounts
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.deps.Onboarding == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service_unavailable", "Registration is not available")
		return
	}

	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	accountID := ""
	if s.deps.IDGenerator != nil {
		accountID = s.deps.IDGenerator.GenerateID()
	}

	result, err := s.deps.Onboarding.Execute(r.Context(), saga.OnboardingInput{
		AccountID:     accountID,
		Name:          req.Name,
		Credential:    req.Credential,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeCommandError(w, r, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

type authenticateRequest struct {
	Credential string `json:"credential"`
}

// handleAuthenticate handles POST /api/v1/accounts/{id}/authenticate
func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")

	var req authenticateRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	if err := s.deps.Onboarding.Authenticate(r.Context(), accountID, req.Credential); err != nil {
		s.writeCommandError(w, r, "authenticate", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"account_id":    accountID,
		"authenticated": true,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// READ-SIDE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetProfile handles GET /api/v1/accounts/{id}/profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	q := query.GetProfileQuery{
		AccountID:       r.PathValue("id"),
		IncludeShadows:  !getQueryParamBool(r, "skip_shadows"),
		IncludeDungeons: !getQueryParamBool(r, "skip_dungeons"),
		BypassCache:     getQueryParamBool(r, "fresh"),
	}

	result, err := s.deps.GetProfileHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeCommandError(w, r, "get_profile", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetAchievements handles GET /api/v1/accounts/{id}/achievements
func (s *Server) handleGetAchievements(w http.ResponseWriter, r *http.Request) {
	q := query.GetAchievementsQuery{
		AccountID:     r.PathValue("id"),
		IncludeHidden: getQueryParamBool(r, "include_hidden"),
		Category:      r.URL.Query().Get("category"),
		OnlyUnlocked:  getQueryParamBool(r, "unlocked"),
	}

	result, err := s.deps.GetAchievementsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeCommandError(w, r, "get_achievements", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetTotalProgress handles GET /api/v1/accounts/{id}/progress
func (s *Server) handleGetTotalProgress(w http.ResponseWriter, r *http.Request) {
	q := query.GetTotalProgressQuery{AccountID: r.PathValue("id")}

	result, err := s.deps.GetTotalProgressHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeCommandError(w, r, "get_total_progress", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetNotifications handles GET /api/v1/accounts/{id}/notifications
//
// With ?persistent=true only active persistent notifications are returned,
// otherwise the newest notifications up to ?limit (default 50).
func (s *Server) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	if s.deps.Notifications == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service_unavailable", "Notifications are not available")
		return
	}

	accountID, err := shared.NewAccountID(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_account_id", err.Error())
		return
	}

	if getQueryParamBool(r, "persistent") {
		list, err := s.deps.Notifications.GetPersistent(r.Context(), accountID)
		if err != nil {
			s.writeCommandError(w, r, "get_notifications", err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}

	limit := getQueryParamInt(r, "limit", 50)
	list, err := s.deps.Notifications.GetByAccount(r.Context(), accountID, limit)
	if err != nil {
		s.writeCommandError(w, r, "get_notifications", err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// ══════════════════════════════════════════════════════════════════════════════
// WRITE-SIDE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleCompleteQuest handles POST /api/v1/accounts/{id}/quests/{questId}/complete
func (s *Server) handleCompleteQuest(w http.ResponseWriter, r *http.Request) {
	cmd := command.CompleteQuestCommand{
		AccountID:     r.PathValue("id"),
		QuestID:       r.PathValue("questId"),
		CorrelationID: getRequestID(r.Context()),
	}

	result, err := s.deps.CompleteQuestHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeCommandError(w, r, "complete_quest", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleUnlockSkill handles POST /api/v1/accounts/{id}/skills/{skillId}/unlock
func (s *Server) handleUnlockSkill(w http.ResponseWriter, r *http.Request) {
	cmd := command.UnlockSkillCommand{
		AccountID:     r.PathValue("id"),
		SkillID:       r.PathValue("skillId"),
		CorrelationID: getRequestID(r.Context()),
	}

	result, err := s.deps.UnlockSkillHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeCommandError(w, r, "unlock_skill", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type extractShadowRequest struct {
	QuestID  string `json:"quest_id"`
	ShadowID string `json:"shadow_id,omitempty"`
}

// handleExtractShadow handles POST /api/v1/accounts/{id}/shadows
func (s *Server) handleExtractShadow(w http.ResponseWriter, r *http.Request) {
	var req extractShadowRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	cmd := command.ExtractShadowCommand{
		AccountID:     r.PathValue("id"),
		QuestID:       req.QuestID,
		ShadowID:      req.ShadowID,
		CorrelationID: getRequestID(r.Context()),
	}

	result, err := s.deps.ExtractShadowHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeCommandError(w, r, "extract_shadow", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleCompleteDungeon handles POST /api/v1/accounts/{id}/dungeons/{dungeonId}/complete
func (s *Server) handleCompleteDungeon(w http.ResponseWriter, r *http.Request) {
	cmd := command.CompleteDungeonCommand{
		AccountID:     r.PathValue("id"),
		DungeonID:     r.PathValue("dungeonId"),
		CorrelationID: getRequestID(r.Context()),
	}

	result, err := s.deps.CompleteDungeonHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeCommandError(w, r, "complete_dungeon", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type allocateAttributeRequest struct {
	Stat string `json:"stat"`
}

// handleAllocateAttribute handles POST /api/v1/accounts/{id}/attributes
func (s *Server) handleAllocateAttribute(w http.ResponseWriter, r *http.Request) {
	var req allocateAttributeRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	cmd := command.AllocateAttributeCommand{
		AccountID:     r.PathValue("id"),
		Stat:          req.Stat,
		CorrelationID: getRequestID(r.Context()),
	}

	result, err := s.deps.AllocateAttributeHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeCommandError(w, r, "allocate_attribute", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type resetCheckRequest struct {
	Force bool `json:"force,omitempty"`
}

// handleResetCheck handles POST /api/v1/accounts/{id}/reset-check
//
// Clients call this on login. The handler compares the reset marker with the
// current UTC day and resets completed daily quests at most once per day.
func (s *Server) handleResetCheck(w http.ResponseWriter, r *http.Request) {
	var req resetCheckRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_body", err.Error())
			return
		}
	}

	cmd := command.ResetDailyQuestsCommand{
		AccountID:     r.PathValue("id"),
		Force:         req.Force,
		CorrelationID: getRequestID(r.Context()),
	}

	result, err := s.deps.ResetDailyQuestsHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeCommandError(w, r, "reset_check", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeCommandError maps domain errors to HTTP status codes.
func (s *Server) writeCommandError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case errors.Is(err, shared.ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, shared.ErrAlreadyExists):
		status = http.StatusConflict
		code = "already_exists"
	case errors.Is(err, shared.ErrUnauthorized):
		status = http.StatusUnauthorized
		code = "unauthorized"
	case errors.Is(err, shared.ErrLockNotAcquired):
		status = http.StatusConflict
		code = "locked"
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrInvalidID),
		errors.Is(err, shared.ErrInvalidInput),
		isValidationMessage(err):
		status = http.StatusBadRequest
		code = "validation_error"
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			logger.String("op", op),
			logger.String("request_id", getRequestID(r.Context())),
			logger.Err(err),
		)
		writeJSONError(w, status, code, "An unexpected error occurred")
		return
	}

	writeJSONError(w, status, code, err.Error())
}

// isValidationMessage catches command Validate() errors, which are plain
// errors with an "is required" message rather than wrapped sentinels.
func isValidationMessage(err error) bool {
	return strings.Contains(err.Error(), "is required") ||
		strings.Contains(err.Error(), "must be")
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
