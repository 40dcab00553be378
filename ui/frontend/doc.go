// Package frontend provides the server-rendered chat interface.
//
// The frontend uses HTMX for interactivity and Tailwind CSS for styling,
// both loaded via CDN for simplicity.
//
// # Routes
//
// Pages:
//   - GET / - Redirect to chat
//   - GET /chat - Chat interface with the session sidebar
//   - GET /chat/session/{id} - Chat interface for one session
//   - GET /help - Usage notes
//
// Chat actions:
//   - POST /chat/new - Create a session and open it
//   - POST /chat/session/{id}/rename - Rename a session
//   - POST /chat/session/{id}/delete - Delete a session
//   - POST /chat/send - Send a message with an optional attachment (HTMX)
//   - POST /chat/messages/{id}/satisfaction - Rate an assistant reply (HTMX)
//
// HTMX Fragments:
//   - GET /chat/session/{id}/messages - Message list of a session
//
// Static Assets:
//   - GET /static/chroma.css - Code highlighting styles
//   - GET /static/* - Embedded static files (JS, CSS)
package frontend
