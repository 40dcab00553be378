// Package api provides REST API handlers for the dbchat UI.
//
// Every response is a JSON envelope: {"data": ...} on success and
// {"error": {"code": ..., "message": ...}} on failure. Requests act on
// behalf of the staff member carried in the request context.
//
// # Endpoints
//
// Sessions:
//   - GET /sessions - List sessions
//   - POST /sessions - Create a session
//   - POST /sessions/{id}/rename - Rename a session
//   - DELETE /sessions/{id} - Delete a session
//
// Messages:
//   - GET /sessions/{id}/messages - Conversation with rendered messages
//   - POST /sessions/{id}/messages - Send a message, returns the exchange
//   - POST /messages/{id}/satisfaction - Rate an assistant message
//
// Rendering:
//   - POST /render - Classify and render arbitrary message content
package api
