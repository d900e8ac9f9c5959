package transfer

// IsASCII returns true if every byte of the body is 0x7F or lower.
func IsASCII(body []byte) bool {
	for _, b := range body {
		if b > 0x7f {
			return false
		}
	}
	return true
}

// isUnsafe reports the control and high-bit bytes that quoted-printable would
// have to escape. Tab, LF and CR are safe.
func isUnsafe(b byte) bool {
	switch {
	case b <= 0x08, b == 0x0b, b == 0x0c:
		return true
	case b >= 0x0e && b <= 0x1f:
		return true
	case b >= 0x7f:
		return true
	}
	return false
}

// OptimalEncoding picks the transfer encoding that will carry the body most
// cheaply:
//
//   - 7bit when every byte is ASCII,
//   - base64 when more than a third of the bytes are control or high-bit
//     bytes,
//   - otherwise quoted-printable.
func OptimalEncoding(body []byte) string {
	if IsASCII(body) {
		return Bit7
	}

	unsafe := 0
	for _, b := range body {
		if isUnsafe(b) {
			unsafe++
		}
	}

	if unsafe > len(body)/3 {
		return Base64
	}

	return QuotedPrintable
}
