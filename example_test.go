package fex_test

import (
	"fmt"
	"strconv"

	"github.com/flowexpr/fex"
)

// --- telephone parser (spec.md §8 scenario 1) ------------------------------

type exampleScanner struct {
	src string
	pos int
}

func newExampleScanner(s string) *exampleScanner { return &exampleScanner{src: s} }

func (s *exampleScanner) atEnd() bool { return s.pos >= len(s.src) }
func (s *exampleScanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.pos]
}
func (s *exampleScanner) skipSpaces() {
	for !s.atEnd() && s.src[s.pos] == ' ' {
		s.pos++
	}
}

func exampleCh(c byte) fex.Predicate[*exampleScanner] {
	return func(s *exampleScanner, _ *fex.ValueSlot) bool {
		if s.atEnd() || s.peek() != c {
			return false
		}
		s.pos++
		return true
	}
}

func exampleDigit() fex.Predicate[*exampleScanner] {
	return func(s *exampleScanner, slot *fex.ValueSlot) bool {
		if s.atEnd() || s.peek() < '0' || s.peek() > '9' {
			return false
		}
		c := s.peek()
		s.pos++
		return slot.Set(true, string(c))
	}
}

// Example demonstrates fex parsing a telephone number with Rep-captured
// digit groups, matching spec.md §8 scenario 1.
func Example() {
	f := fex.NewFactory[*exampleScanner](nil)
	var dcode string

	axiom := f.Seq(func(b *fex.Builder[*exampleScanner]) {
		b.Op(exampleCh('('))

		var buf string
		b.Rep(3, -1, func(b *fex.Builder[*exampleScanner]) {
			b.Op(exampleDigit())
			fex.ActValue(b, func(v string) { buf += v })
		})
		b.Act(func(*exampleScanner) { dcode = buf })

		b.Op(exampleCh(')'))
	})

	ok := fex.Run(axiom, newExampleScanner("(011) next"))
	fmt.Println(ok, dcode)
	// Output: true 011
}

// --- arithmetic evaluator (spec.md §8 scenario 3) --------------------------

type exampleCalc struct {
	src   string
	pos   int
	stack []float64
}

func (c *exampleCalc) atEnd() bool { return c.pos >= len(c.src) }
func (c *exampleCalc) peek() byte {
	if c.atEnd() {
		return 0
	}
	return c.src[c.pos]
}
func (c *exampleCalc) skipSpaces() {
	for !c.atEnd() && c.src[c.pos] == ' ' {
		c.pos++
	}
}
func (c *exampleCalc) push(v float64) { c.stack = append(c.stack, v) }
func (c *exampleCalc) pop() float64 {
	v := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return v
}

func exampleChC(ch byte) fex.Predicate[*exampleCalc] {
	return func(c *exampleCalc, _ *fex.ValueSlot) bool {
		if c.atEnd() || c.peek() != ch {
			return false
		}
		c.pos++
		return true
	}
}

func exampleNumber() fex.Predicate[*exampleCalc] {
	return func(c *exampleCalc, _ *fex.ValueSlot) bool {
		start := c.pos
		for !c.atEnd() && c.peek() >= '0' && c.peek() <= '9' {
			c.pos++
		}
		if c.pos == start {
			return false
		}
		v, err := strconv.ParseFloat(c.src[start:c.pos], 64)
		if err != nil {
			c.pos = start
			return false
		}
		c.push(v)
		return true
	}
}

// Example_sum demonstrates a left-associative a+b+c grammar built with
// RepZeroN, folding onto a number stack via Act, matching the additive
// half of spec.md §8 scenario 3's grammar.
func Example_sum() {
	f := fex.NewFactory[*exampleCalc](nil)
	axiom := f.Seq(func(b *fex.Builder[*exampleCalc]) {
		b.GlobalPreOp(func(c *exampleCalc) { c.skipSpaces() })
		b.Op(exampleNumber())
		b.RepZeroN(func(b *fex.Builder[*exampleCalc]) {
			b.Op(exampleChC('+'))
			b.Op(exampleNumber())
			b.Act(func(c *exampleCalc) { r, l := c.pop(), c.pop(); c.push(l + r) })
		})
	})

	ctx := &exampleCalc{src: "1 + 2 + 3"}
	fex.Run(axiom, ctx)
	fmt.Println(ctx.stack[0])
	// Output: 6
}
