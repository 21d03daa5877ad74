package tensor

import "sync/atomic"

// buffer is an immutable-after-share byte buffer. Sharing is cheap (share
// just bumps a counter and copies a pointer); mutating a tensor backed by a
// shared buffer is forbidden until the caller calls ensureUnique, which
// copies the bytes first. Go's garbage collector reclaims the underlying
// slice once every buffer referencing it is unreachable; refs only tracks
// logical sharing for the copy-on-write contract, not memory lifetime.
type buffer struct {
	data []byte
	refs *atomic.Int32
}

func newBuffer(data []byte) *buffer {
	refs := &atomic.Int32{}
	refs.Store(1)

	return &buffer{data: data, refs: refs}
}

// share returns a new handle to the same backing bytes, incrementing the
// logical reference count.
func (b *buffer) share() *buffer {
	b.refs.Add(1)

	return &buffer{data: b.data, refs: b.refs}
}

// isShared reports whether any other handle besides b references the same bytes.
func (b *buffer) isShared() bool {
	return b.refs.Load() > 1
}

// clone makes an independent copy of the buffer's bytes, releasing this
// handle's hold on the shared count.
func (b *buffer) clone() *buffer {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	b.refs.Add(-1)

	return newBuffer(out)
}
