package parser

import (
	"math/rand"
	"strconv"

	"github.com/pkg/errors"
)

// block tracks the single supported level of #RANDOM / #IF
type block struct {
	open    bool
	value   int64
	inIf    bool
	active  bool // the current clause matched the drawn value
	matched bool // an earlier clause of this #IF chain already matched
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// skip reports whether the current line sits in a clause that was not drawn
func (b *block) skip() bool {
	return b.open && b.inIf && !b.active
}

// inside reports whether a line sits within a random block
func (b *block) inside() bool {
	return b.open
}

func parseBound(value string, line int) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if nil != err {
		return 0, &Error{Kind: ErrNumericType, Line: line, Err: errors.Wrapf(err, "bad bound %q", value)}
	}
	if n < 1 {
		return 0, &Error{Kind: ErrNumericValue, Line: line, Err: errors.Errorf("bound %d below 1", n)}
	}
	return n, nil
}

// control handles a control flow directive and reports whether key was one
func (s *state) control(key, value string) (bool, error) {
	b := &s.block
	switch key {
	case "RANDOM", "SETRANDOM":
		n, err := parseBound(value, s.line)
		if nil != err {
			return true, err
		}
		if b.open && b.inIf {
			s.warnf("nested #%s ignored", key)
			return true, nil
		}
		if b.open {
			s.warnf("#%s before #ENDRANDOM, closing the previous block", key)
		}
		*b = block{open: true}
		if key == "RANDOM" {
			b.value = s.rng.Int63n(n) + 1
		} else {
			b.value = n
		}
	case "IF", "ELSEIF":
		k, err := strconv.ParseInt(value, 10, 64)
		if nil != err {
			return true, &Error{Kind: ErrNumericType, Line: s.line, Err: errors.Wrapf(err, "bad #%s value %q", key, value)}
		}
		if !b.open {
			s.warnf("#%s outside of #RANDOM ignored", key)
			return true, nil
		}
		if key == "IF" {
			if b.inIf {
				s.warnf("nested #IF ignored")
				return true, nil
			}
			b.inIf = true
			b.matched = false
		} else if !b.inIf {
			s.warnf("#ELSEIF without #IF ignored")
			return true, nil
		}
		b.active = !b.matched && k == b.value
		b.matched = b.matched || b.active
	case "ELSE":
		if !b.inIf {
			s.warnf("#ELSE without #IF ignored")
			return true, nil
		}
		b.active = !b.matched
		b.matched = true
	case "ENDIF", "END":
		if !b.inIf {
			s.warnf("#%s without #IF ignored", key)
			return true, nil
		}
		b.inIf = false
		b.active = false
	case "ENDRANDOM":
		if !b.open {
			s.warnf("#ENDRANDOM without #RANDOM ignored")
			return true, nil
		}
		if b.inIf {
			s.warnf("missing #ENDIF before #ENDRANDOM")
		}
		*b = block{}
	default:
		return false, nil
	}
	return true, nil
}

// finish closes a block left open at the end of the chart
func (s *state) finishBlock() {
	if s.block.inIf {
		s.warnf("missing #ENDIF at end of chart")
	}
	if s.block.open {
		s.warnf("missing #ENDRANDOM at end of chart")
	}
	s.block = block{}
}
