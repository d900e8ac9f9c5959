// Package transfer implements the Content-Transfer-Encoding schemes used for
// the parts of a multipart body, and the heuristic used to pick the cheapest
// safe one for a given body.
//
// For the sake of this package, "encoded" means that the content has been
// transformed into the named Content-Transfer-Encoding and "decoded" means the
// content is back in its original bytes.
package transfer
