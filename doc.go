// Package httpmsg is the root of a library for the text side of HTTP messages:
// headers, cookies, cookie jars, and multipart bodies. It does no network I/O
// of its own. It only turns values into wire text and wire text back into
// values.
//
// The library is split by part of a message:
//
//   - header holds an ordered, case-insensitive collection of header fields,
//     with header/field providing the fields themselves, including folding and
//     line length limits. Parsing is lenient and rendering is strict.
//
//   - httpheader extends header for HTTP requests and responses, keeping the
//     status line and routing Cookie and Set-Cookie fields into the cookie
//     collections.
//
//   - cookie holds request cookies (Cookie) and response cookies (SetCookie)
//     and their collections, including expiry, domain, and path matching.
//
//   - cookie/jar reads and writes the Netscape cookie jar format used by curl
//     and wget.
//
//   - message composes bodies out of one or more byte sources, either passed
//     through as they are or framed as a multipart/* MIME body.
//
//   - transfer, param, and charset provide Content-Transfer-Encoding,
//     parameterized header values, and charset names to the rest.
//
// Every collection here is a plain value without locking. Clone them to hand
// them off between goroutines.
package httpmsg
