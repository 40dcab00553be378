// Package service provides the shared chat logic for the DB Knowledge UI.
//
// The service layer is HTTP-agnostic and used by both the JSON API and
// SSR frontend handlers. It talks to the chat API through the Backend
// interface and returns view models with message content already rendered.
//
// # Usage
//
//	client, _ := backend.New(&backend.Config{BaseURL: "https://chat.example.com/DBC"})
//	svc := service.New(client, service.WithHooks(registry))
//
//	ctx = backend.WithStaffID(ctx, "1001")
//	sessions, err := svc.ListSessions(ctx)
//	conv, err := svc.GetConversation(ctx, sessions[0].ID)
//
// # Design
//
// The service layer:
//   - Never holds per-user state; the staff id travels in the context
//   - Decides the render mode of every message through render.Classify
//   - Validates attachments and composes the text sent to the assistant
//   - Runs hooks around sends and ratings when a registry is configured
package service
