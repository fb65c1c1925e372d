package identity

// Order returns the two user IDs sorted lexicographically, lo <= hi.
// Every component that addresses a symmetric pair goes through this so that
// operations from either side of the pair resolve to the same storage key.
func Order(a, b string) (lo, hi string) {
	if a < b {
		return a, b
	}
	return b, a
}

// PairKey builds the canonical document key for an unordered user pair.
// IDs are joined with "_"; Firebase UIDs never contain the separator, so the
// key is collision-free in practice (IDs from other providers would need
// their own guarantee).
func PairKey(a, b string) string {
	lo, hi := Order(a, b)
	return lo + "_" + hi
}

// ConversationID resolves the message-stream key for a 1:1 chat. Group chats
// are keyed by their groupId directly and never go through this.
func ConversationID(a, b string) string {
	return PairKey(a, b)
}
