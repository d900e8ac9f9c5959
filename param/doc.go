// Package param provides a tool for dealing with parameterized header values,
// such as Content-Type and Content-Disposition. In addition, it provides some
// helpers for breaking down the MIME types that get set in the Content-Type
// header of HTTP messages and multipart bodies.
package param
