package directory

import "sync/atomic"

// Token identifies one fetch issued by a screen. Tokens are unique across
// every Generation in the process.
type Token uint64

var tokenSeq atomic.Uint64

// Generation tracks the current fetch of one kind (load, search, submit).
// Only the most recently issued token is current; results carrying any other
// token are stale and must be dropped.
//
// Generation is not safe for concurrent use. Screens are driven from a single
// update loop; fetches run elsewhere but hand their results back to it.
type Generation struct {
	cur Token
}

// Next invalidates the outstanding token and returns a new current one.
func (g *Generation) Next() Token {
	g.cur = Token(tokenSeq.Add(1))
	return g.cur
}

// Current reports whether t is the latest token issued.
func (g Generation) Current(t Token) bool {
	return g.cur != 0 && t == g.cur
}
