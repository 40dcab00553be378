// Package ui provides the embedded web UI of the DB Knowledge chat.
//
// Handler serves two surfaces over one chat backend:
//   - the SSR chat interface (HTMX + Tailwind) at /
//   - a JSON API at /api/
//
// # Quick Start
//
//	client, _ := backend.New(&backend.Config{
//	    BaseURL:  os.Getenv("DBCHAT_BACKEND_URL"),
//	    TokenURL: os.Getenv("DBCHAT_TOKEN_URL"),
//	})
//
//	mux := http.NewServeMux()
//	mux.Handle("/ui/", http.StripPrefix("/ui", ui.Handler(client, &ui.Config{
//	    BasePath:     "/ui",
//	    CookieSecret: []byte(os.Getenv("DBCHAT_COOKIE_SECRET")),
//	})))
//
//	http.ListenAndServe(":8080", mux)
//
// # Staff identity
//
// Every request acts for one staff member. The BackOffice opens the chat
// with ?sessionId=<token>; the token is exchanged for a staff id which is
// kept in a signed cookie. Without a token or cookie, Config.DefaultStaffID
// is used, and when that is empty backend calls fail with
// backend.ErrNoStaff.
//
// # Hooks
//
// Config.Hooks runs a hooks.Registry around every send and rating, for
// example to log traffic or refuse messages containing credentials.
//
// # Adding Middleware
//
// Wrap the handler externally using standard Go patterns:
//
//	handler := loggingMiddleware(ui.Handler(client, cfg))
//	http.Handle("/ui/", http.StripPrefix("/ui", handler))
package ui
