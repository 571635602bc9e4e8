package protocol

// TextPayload appends the NUL terminator carried by non-empty text payloads.
func TextPayload(s string) []byte {
	if s == "" {
		return nil
	}
	out := make([]byte, len(s)+1)
	copy(out, s)
	return out
}

// TrimText strips a single trailing NUL terminator, if present.
func TrimText(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == 0 {
		return b[:n-1]
	}
	return b
}
