package translator

// DefaultHistorySize is how many committed tokens the interaction log keeps.
const DefaultHistorySize = 10

// History is a fixed-capacity log of committed tokens that drops the oldest
// entry on overflow.
type History struct {
	tokens []Token
	start  int
	size   int
}

// NewHistory returns a history holding at most capacity tokens.
// A non-positive capacity falls back to DefaultHistorySize.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{tokens: make([]Token, capacity)}
}

// Add appends tok, evicting the oldest token when full.
func (h *History) Add(tok Token) {
	capacity := len(h.tokens)
	if h.size < capacity {
		h.tokens[(h.start+h.size)%capacity] = tok
		h.size++
		return
	}
	h.tokens[h.start] = tok
	h.start = (h.start + 1) % capacity
}

// Tokens returns a copy of the log, oldest first.
func (h *History) Tokens() []Token {
	out := make([]Token, h.size)
	for i := range out {
		out[i] = h.tokens[(h.start+i)%len(h.tokens)]
	}
	return out
}

// Len returns the number of tokens held.
func (h *History) Len() int {
	return h.size
}

// Reset drops every token.
func (h *History) Reset() {
	for i := range h.tokens {
		h.tokens[i] = Token{}
	}
	h.start = 0
	h.size = 0
}
