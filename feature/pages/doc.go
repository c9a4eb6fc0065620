// Package pages runs the conditional resource loader over submitted pages.
//
// A request carries the page markup and its items, inline or by manifest name.
// The service parses the page, starts a loader, fires DOMContentLoaded and
// waits for every item to settle (bounded by the process timeout). The
// response holds the page with the inserted <link> and <script> nodes, the
// per-item results and the names of the item events that fired.
//
// # HTTP Endpoints
//
//   - POST /pages/process : processes one page.
package pages
