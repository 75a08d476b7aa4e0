package domain

// Wipe overwrites key material once it is no longer needed. Nil buffers are skipped.
func Wipe(bufs ...[]byte) {
	for _, b := range bufs {
		clear(b)
	}
}
