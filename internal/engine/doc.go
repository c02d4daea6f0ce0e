// Package engine implements the two externally triggered intents: toggling
// a mark over a selection and clearing a page.
//
// Every intent returns a structured Result with a machine-readable failure
// reason; nothing is thrown to the caller. Input validation happens before
// any mutation, and a mutation failure aborts the operation before the
// persistence write, so stored state never reflects a half-applied overlay.
package engine
