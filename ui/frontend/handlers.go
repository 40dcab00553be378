package frontend

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/dbknowledge/dbchat/backend"
	"github.com/dbknowledge/dbchat/render"
	"github.com/dbknowledge/dbchat/ui/service"
)

// multipartOverhead is the form size allowed beyond the attachment limit.
const multipartOverhead = 1 << 20

// logError logs an error if the logger is configured.
// It's used for optional data fetches that shouldn't break the page.
func (rt *router) logError(msg string, err error) {
	if rt.config.Logger != nil {
		rt.config.Logger.Warn(msg, "error", err.Error())
	}
}

// httpStatus maps service and backend errors to a status code and a
// message safe to show to the user.
func httpStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Conversation not found"
	case errors.Is(err, service.ErrInvalidSessionName):
		return http.StatusBadRequest, "Please enter a conversation name"
	case errors.Is(err, service.ErrEmptyMessage):
		return http.StatusBadRequest, "Type a message or attach a file"
	case errors.Is(err, service.ErrMissingSession):
		return http.StatusBadRequest, "Select a conversation first"
	case errors.Is(err, service.ErrUnsupportedAttachment):
		return http.StatusBadRequest, "Only .txt and .sql text files can be attached"
	case errors.Is(err, service.ErrRejected):
		return http.StatusBadRequest, "This message was blocked. Remove credentials and try again."
	case errors.Is(err, service.ErrAttachmentTooLarge):
		return http.StatusRequestEntityTooLarge, "The attached file is too large"
	case errors.Is(err, backend.ErrInvalidSatisfaction):
		return http.StatusBadRequest, "Invalid rating"
	case errors.Is(err, backend.ErrNoStaff):
		return http.StatusUnauthorized, "Your session has expired. Please reopen the chat from the BackOffice."
	case errors.Is(err, backend.ErrBackend), errors.Is(err, backend.ErrMalformedResponse):
		return http.StatusBadGateway, "The chat service is unavailable"
	default:
		return http.StatusInternalServerError, "Something went wrong"
	}
}

func (rt *router) writeError(w http.ResponseWriter, msg string, err error) {
	status, text := httpStatus(err)
	if status >= http.StatusInternalServerError {
		rt.logError(msg, err)
	}
	http.Error(w, text, status)
}

// redirect sends the browser to path under the base path. HTMX requests
// get an HX-Redirect header instead of a 303.
func (rt *router) redirect(w http.ResponseWriter, r *http.Request, path string) {
	target := rt.config.BasePath + path
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// sessionsForSidebar lists sessions for the sidebar. Failures leave the
// sidebar empty rather than breaking the page.
func (rt *router) sessionsForSidebar(r *http.Request) []*service.SessionSummary {
	sessions, err := rt.svc.ListSessions(r.Context())
	if err != nil {
		rt.logError("failed to list sessions for chat sidebar", err)
		return nil
	}
	return sessions
}

// Page handlers

func (rt *router) handleRedirectToChat(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, rt.config.BasePath+"/chat", http.StatusTemporaryRedirect)
}

func (rt *router) handleChat(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Sessions": rt.sessionsForSidebar(r),
	}

	if err := rt.renderer.render(w, r, "chat/interface.html", "Chat", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router) handleChatSession(w http.ResponseWriter, r *http.Request) {
	conversation, err := rt.svc.GetConversation(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.writeError(w, "failed to load conversation", err)
		return
	}

	data := map[string]any{
		"Sessions":     rt.sessionsForSidebar(r),
		"Conversation": conversation,
	}

	if err := rt.renderer.render(w, r, "chat/interface.html", "Chat: "+conversation.Session.Title, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router) handleHelp(w http.ResponseWriter, r *http.Request) {
	source, err := templatesFS.ReadFile("templates/help.md")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Help": string(source),
	}

	if err := rt.renderer.render(w, r, "help.html", "Help", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Chat action handlers

func (rt *router) handleChatNew(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	session, err := rt.svc.CreateSession(r.Context(), r.FormValue("name"))
	if err != nil {
		rt.writeError(w, "failed to create session", err)
		return
	}

	rt.redirect(w, r, "/chat/session/"+url.PathEscape(session.ID))
}

func (rt *router) handleChatRename(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	if err := rt.svc.RenameSession(r.Context(), id, r.FormValue("name")); err != nil {
		rt.writeError(w, "failed to rename session", err)
		return
	}

	if r.Header.Get("HX-Request") != "true" {
		http.Redirect(w, r, rt.config.BasePath+"/chat/session/"+url.PathEscape(id), http.StatusSeeOther)
		return
	}

	data := map[string]any{
		"BasePath":  rt.config.BasePath,
		"Sessions":  rt.sessionsForSidebar(r),
		"CurrentID": r.FormValue("current"),
	}

	if err := rt.renderer.renderFragment(w, "chat/sidebar.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router) handleChatDelete(w http.ResponseWriter, r *http.Request) {
	if err := rt.svc.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		rt.writeError(w, "failed to delete session", err)
		return
	}

	rt.redirect(w, r, "/chat")
}

func (rt *router) handleChatSend(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.config.MaxAttachmentBytes+multipartOverhead)
	if err := r.ParseMultipartForm(rt.config.MaxAttachmentBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rt.writeError(w, "upload too large", service.ErrAttachmentTooLarge)
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
	}

	var att *backend.Attachment
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		att, err = service.ReadAttachment(header.Filename, header.Header.Get("Content-Type"), file, rt.config.MaxAttachmentBytes)
		if err != nil {
			rt.writeError(w, "invalid attachment", err)
			return
		}
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	ex, err := rt.svc.SendMessage(r.Context(), r.FormValue("session_id"), r.FormValue("message"), att)
	if err != nil && ex == nil {
		rt.writeError(w, "failed to send message", err)
		return
	}
	if err != nil {
		rt.logError("assistant request failed", err)
	}

	data := map[string]any{
		"BasePath": rt.config.BasePath,
		"Exchange": ex,
	}

	if err := rt.renderer.renderFragment(w, "chat/exchange.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (rt *router) handleSatisfaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	sat, err := rt.svc.Rate(r.Context(), id, r.FormValue("satisfaction"), r.FormValue("reason"))
	if err != nil {
		rt.writeError(w, "failed to submit satisfaction", err)
		return
	}

	data := map[string]any{
		"BasePath": rt.config.BasePath,
		"Message": &service.MessageView{
			ID:           id,
			Role:         render.RoleAssistant,
			Satisfaction: sat,
		},
	}

	if err := rt.renderer.renderFragment(w, "chat/rating.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Fragment handlers for HTMX

func (rt *router) handleChatMessages(w http.ResponseWriter, r *http.Request) {
	conversation, err := rt.svc.GetConversation(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.writeError(w, "failed to load conversation", err)
		return
	}

	data := map[string]any{
		"BasePath":     rt.config.BasePath,
		"Conversation": conversation,
	}

	if err := rt.renderer.renderFragment(w, "chat/messages.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
