package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dbknowledge/dbchat/backend"
	"github.com/dbknowledge/dbchat/render"
	"github.com/dbknowledge/dbchat/ui/service"
)

// Response wraps all API responses.
type Response struct {
	Data  any       `json:"data,omitempty"`
	Error *APIError `json:"error,omitempty"`
	Meta  *Meta     `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta contains list metadata.
type Meta struct {
	TotalCount int `json:"total_count"`
}

// Request bodies.
type (
	sessionNameRequest struct {
		Name string `json:"name"`
	}

	sendMessageRequest struct {
		Message    string              `json:"message"`
		Attachment *backend.Attachment `json:"attachment,omitempty"`
	}

	satisfactionRequest struct {
		Satisfaction string `json:"satisfaction"`
		Reason       string `json:"reason"`
	}

	renderRequest struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
)

// RenderResult is the response of POST /render.
type RenderResult struct {
	Mode  render.Mode   `json:"mode"`
	HTML  string        `json:"html"`
	Spans []render.Span `json:"spans,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Data: data})
}

// writeJSONWithMeta writes a JSON response with metadata.
func writeJSONWithMeta(w http.ResponseWriter, status int, data any, meta *Meta) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Data: data, Meta: meta})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{
		Error: &APIError{Code: code, Message: message},
	})
}

// decodeBody decodes a bounded JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps service and backend errors to API errors.
func (rt *router) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "session not found")
	case errors.Is(err, service.ErrInvalidSessionName),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrMissingSession),
		errors.Is(err, service.ErrUnsupportedAttachment),
		errors.Is(err, service.ErrRejected),
		errors.Is(err, backend.ErrInvalidSatisfaction):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, service.ErrAttachmentTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", err.Error())
	case errors.Is(err, backend.ErrNoStaff):
		writeError(w, http.StatusUnauthorized, "unauthorized", "no staff session")
	case errors.Is(err, backend.ErrBackend), errors.Is(err, backend.ErrMalformedResponse):
		rt.logWarn("backend request failed", err)
		writeError(w, http.StatusBadGateway, "backend_error", "chat service unavailable")
	default:
		rt.logWarn("request failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func (rt *router) logWarn(msg string, err error) {
	if rt.config.Logger != nil {
		rt.config.Logger.Warn(msg, "error", err.Error())
	}
}

// Session handlers

func (rt *router) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := rt.svc.ListSessions(r.Context())
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	writeJSONWithMeta(w, http.StatusOK, sessions, &Meta{TotalCount: len(sessions)})
}

func (rt *router) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionNameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := rt.svc.CreateSession(r.Context(), req.Name)
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (rt *router) handleRenameSession(w http.ResponseWriter, r *http.Request) {
	var req sessionNameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id := r.PathValue("id")
	if err := rt.svc.RenameSession(r.Context(), id, req.Name); err != nil {
		rt.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "title": strings.TrimSpace(req.Name)})
}

func (rt *router) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := rt.svc.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		rt.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Message handlers

func (rt *router) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	conv, err := rt.svc.GetConversation(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	writeJSONWithMeta(w, http.StatusOK, conv, &Meta{TotalCount: conv.MessageCount})
}

func (rt *router) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var att *backend.Attachment
	if req.Attachment != nil {
		var err error
		att, err = service.ReadAttachment(req.Attachment.Name, "", strings.NewReader(req.Attachment.Content), rt.config.MaxAttachmentBytes)
		if err != nil {
			rt.writeServiceError(w, err)
			return
		}
	}

	ex, err := rt.svc.SendMessage(r.Context(), r.PathValue("id"), req.Message, att)
	if err != nil && ex == nil {
		rt.writeServiceError(w, err)
		return
	}
	if err != nil {
		// The exchange carries the error notice for the client to show.
		rt.logWarn("send message failed", err)
	}
	writeJSON(w, http.StatusOK, ex)
}

func (rt *router) handleSatisfaction(w http.ResponseWriter, r *http.Request) {
	var req satisfactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id := r.PathValue("id")
	sat, err := rt.svc.Rate(r.Context(), id, req.Satisfaction, req.Reason)
	if err != nil {
		rt.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "satisfaction": sat})
}

// Render handlers

func (rt *router) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	role := render.ParseRole(req.Role)
	result := &RenderResult{
		Mode: render.Classify(role, req.Content),
		HTML: string(render.HTML(role, req.Content)),
	}
	if result.Mode == render.ModeStructured {
		result.Spans = render.Segment(req.Content)
	}
	writeJSON(w, http.StatusOK, result)
}
