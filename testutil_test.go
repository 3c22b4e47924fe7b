package fex

import "strings"

// scanner is a minimal text cursor used only by this package's own tests
// to exercise the node model against something context-shaped. It is
// intentionally not part of the public API: real scanner-bound operators
// (Ch, AnyCh, NumDecimal, ...) are a per-context concern outside the
// engine's scope, per spec.
type scanner struct {
	src string
	pos int
	log []string
}

func newScanner(s string) *scanner {
	return &scanner{src: s}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) skipSpaces() {
	for !s.atEnd() && s.src[s.pos] == ' ' {
		s.pos++
	}
}

// ch matches a single literal byte and advances past it.
func ch(c byte) Predicate[*scanner] {
	return func(s *scanner, _ *ValueSlot) bool {
		if s.atEnd() || s.peek() != c {
			return false
		}
		s.pos++
		return true
	}
}

// anyCh matches any one of the given bytes and advances past it.
func anyCh(chars string) Predicate[*scanner] {
	return func(s *scanner, _ *ValueSlot) bool {
		if s.atEnd() || !strings.ContainsRune(chars, rune(s.peek())) {
			return false
		}
		s.pos++
		return true
	}
}

// digit matches a single ASCII digit, storing it in the value slot.
func digit() Predicate[*scanner] {
	return func(s *scanner, slot *ValueSlot) bool {
		if s.atEnd() || s.peek() < '0' || s.peek() > '9' {
			return false
		}
		c := s.peek()
		s.pos++
		return slot.Set(true, string(c))
	}
}

func isEos() Predicate[*scanner] {
	return func(s *scanner, _ *ValueSlot) bool {
		return s.atEnd()
	}
}
