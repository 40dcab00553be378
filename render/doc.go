// Package render turns chat message text into displayable output.
//
// Two render modes exist. Structured text is split into fenced code blocks
// and text spans by Segment, and text spans are split further into bold,
// inline code and plain runs by Format. Assistant content that looks like
// HTML is instead passed through Sanitize, which removes a fixed deny-list of
// elements and attributes before the markup is trusted by the page.
//
// Classify decides between the two modes. HTML and Terminal wrap the whole
// pipeline for the web UI and the command line respectively.
//
// Every function in this package is pure and safe for concurrent use.
package render
