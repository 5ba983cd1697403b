package model

// History is an ordered chat history with an optional length bound. When the
// bound is exceeded the oldest evictable message is dropped.
type History struct {
	messages   []Message
	maxLen     int // 0 means unbounded
	fixedFirst bool
}

// NewHistory creates a history holding at most maxLen messages (0 for no
// limit), evicting from the front.
func NewHistory(maxLen int, msgs ...Message) *History {
	h := &History{maxLen: maxLen}
	for _, m := range msgs {
		h.Add(m)
	}
	return h
}

// NewFixedFirstHistory creates a bounded history whose first message (usually
// the system prompt) is never evicted; the second-oldest message goes instead.
func NewFixedFirstHistory(maxLen int, msgs ...Message) *History {
	h := &History{maxLen: maxLen, fixedFirst: true}
	for _, m := range msgs {
		h.Add(m)
	}
	return h
}

// Add appends a message, evicting one if the bound is exceeded.
func (h *History) Add(m Message) {
	h.messages = append(h.messages, m)
	if h.maxLen <= 0 || len(h.messages) <= h.maxLen {
		return
	}

	idx := 0
	if h.fixedFirst && len(h.messages) > 1 {
		idx = 1
	}
	h.messages = append(h.messages[:idx], h.messages[idx+1:]...)
}

// AddText appends a message with the given role and content.
func (h *History) AddText(role Role, content string) {
	h.Add(Message{Role: role, Content: content})
}

// Messages returns a copy of the current messages.
func (h *History) Messages() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of messages held.
func (h *History) Len() int { return len(h.messages) }
