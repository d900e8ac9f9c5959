// Package cookie models request cookies (the Cookie header) and response
// cookies (the Set-Cookie header), along with the collections that hold them.
//
// Parsing is lenient about cookie names, but rendering is strict: any cookie
// whose name contains one of "=,; \t\r\n\v\f" fails to render with
// ErrInvalidCookieName.
//
// Values of response cookies are URL-encoded when rendered and decoded when
// parsed. Values of request cookies are rendered exactly as given.
package cookie
