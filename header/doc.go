// Package header provides an ordered, case-insensitive collection of header
// fields with the rules for rendering them to and parsing them from the wire.
//
// Names are compared without regard to letter case, but the letter case of the
// name last written is the one rendered. Setting a name that is already present
// replaces the field in place, so the original order of the header is kept.
//
// This is the generic envelope header used for MIME parts and similar. The
// stricter header for HTTP requests and responses, which tracks the status line
// and cookies, lives in the httpheader package.
package header
