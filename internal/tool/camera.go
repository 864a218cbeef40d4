package tool

// Stream is an open camera acquisition held by a controller between open and
// capture/cancel/reset. The device is the one shared physical resource, so
// controllers close the handle as soon as the frame is taken rather than
// holding it through analysis.
type Stream interface {
	Close() error
}

// closeStream releases a held stream, tolerating a nil handle.
func closeStream(s Stream) {
	if s != nil {
		_ = s.Close()
	}
}
