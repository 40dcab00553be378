// Package backend is an HTTP client for the DB Knowledge chat API.
//
// The remote service owns sessions, message history and inference. This
// package only issues requests and normalizes the loosely-shaped JSON it
// returns into Session and Message values.
//
// Calls made on behalf of a staff member read the staff id from the context:
//
//	ctx = backend.WithStaffID(ctx, "1001")
//	sessions, err := client.ListSessions(ctx)
//
// There is no process-wide "current staff" state.
package backend
