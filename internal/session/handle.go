package session

import "github.com/ASHU191/Pixify-Convert/internal/fit"

// Handle owns the bytes of one conversion result. Release is explicit and
// idempotent; a released handle keeps its metadata but drops the buffer.
type Handle struct {
	res      fit.Result
	released bool
}

func newHandle(res *fit.Result) *Handle {
	return &Handle{res: *res}
}

// Bytes returns the encoded output, or nil once released.
func (h *Handle) Bytes() []byte {
	if h.released {
		return nil
	}
	return h.res.Bytes
}

// Quality is the encoder quality the result was produced at.
func (h *Handle) Quality() float64 { return h.res.Quality }

// Scale is the resampling factor relative to the original raster.
func (h *Handle) Scale() float64 { return h.res.Scale }

// MetCap reports whether the result honored the requested size cap.
func (h *Handle) MetCap() bool { return h.res.MetCap }

// Released reports whether the buffer has been dropped.
func (h *Handle) Released() bool { return h.released }

// Release drops the buffer. Safe to call more than once.
func (h *Handle) Release() {
	h.res.Bytes = nil
	h.released = true
}
