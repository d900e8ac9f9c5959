// Package message composes HTTP and MIME message bodies out of one or more
// byte sources.
//
// A MixedPart holds child nodes. When its media type is not multipart, it
// passes the content of its children through as-is, and with a single child,
// the Content-Type of that child becomes the Content-Type of the whole. When
// its media type is multipart/*, each child is framed by a boundary and given
// a header block of its own:
//
//	mp := message.New(message.WithMime("multipart/form-data"))
//	_, _ = mp.Add("bar", message.Name("foo"))
//	_, _ = mp.Add(file, message.Name("upload"), message.Filename("a.png"), message.Mime("image/png"))
//	msg, err := mp.Message()
//
// Reading the content of a child drains it. Call Rewind to read it again and
// Close to release children that hold files or other closers.
package message
