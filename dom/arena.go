package dom

// An arena hands out pointers into fixed-size chunks that are appended,
// never reallocated, so every pointer it has issued stays valid until
// reset.  Reset recycles the chunk storage without freeing it, which is
// what lets a Parser reuse its node memory across documents.
type arena[T any] struct {
	chunks [][]T
	used   int
}

const arenaChunkSize = 256

// alloc returns the next free slot.  The slot is NOT zeroed when the arena
// is being reused; callers must initialize every field they rely on.
func (a *arena[T]) alloc() *T {
	chunk := a.used / arenaChunkSize
	if chunk == len(a.chunks) {
		a.chunks = append(a.chunks, make([]T, arenaChunkSize))
	}
	p := &a.chunks[chunk][a.used%arenaChunkSize]
	a.used++
	return p
}

// reset discards all issued slots logically while keeping the chunks for
// reuse.  Pointers handed out before reset must no longer be used.
func (a *arena[T]) reset() {
	a.used = 0
}
