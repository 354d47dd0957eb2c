package ports

// Buffer is an immutable text buffer. The occurrence cache keys entries by
// buffer identity, not content: two Buffers holding identical text are
// distinct cache keys. Always thread the same *Buffer through related
// queries.
type Buffer struct {
	text string
}

// NewBuffer wraps text in a fresh Buffer with its own identity.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text}
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() int { return len(b.text) }

// Text returns the full buffer contents.
func (b *Buffer) Text() string { return b.text }

// CharAt returns the byte at offset i.
func (b *Buffer) CharAt(i int) byte { return b.text[i] }
