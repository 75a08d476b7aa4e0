package domain

import (
	"sort"
)

// Envelope is a payload encrypted once under a content key, with that content key
// wrapped separately for each recipient.
//
// Every wrapped key recovers the same content key. Sharing is extended only by
// adding entries to WrappedKeys; IV and Ciphertext never change.
type Envelope struct {
	Algorithm   Algorithm
	IV          []byte
	Ciphertext  []byte
	WrappedKeys map[string][]byte
	Signature   Signature
}

// HasRecipient reports whether id holds a wrapped key.
func (e *Envelope) HasRecipient(id string) bool {
	if e == nil || e.WrappedKeys == nil {
		return false
	}
	_, ok := e.WrappedKeys[id]
	return ok
}

// Recipients returns the recipient ids in sorted order.
func (e *Envelope) Recipients() []string {
	if e == nil {
		return nil
	}
	ids := make([]string, 0, len(e.WrappedKeys))
	for id := range e.WrappedKeys {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WrappedKeyFor returns the wrapped key of a recipient or ErrRecipientNotFound.
func (e *Envelope) WrappedKeyFor(id string) ([]byte, error) {
	if !e.HasRecipient(id) {
		return nil, ErrRecipientNotFound
	}
	return e.WrappedKeys[id], nil
}
