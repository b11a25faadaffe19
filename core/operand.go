package core

import (
	"strconv"
	"strings"

	"github.com/mariocodesforfun/risc-v-to-machine/program"
)

// Resolver turns operand tokens into numbers.
type Resolver struct {
	// ABINames enables register aliases such as sp and a0 next to xN.
	ABINames bool
}

// ResolveRegister parses a register token. Only xN with N in 0..31 is
// accepted unless ABI names are enabled.
func (r Resolver) ResolveRegister(tok string) (uint32, error) {
	if r.ABINames {
		if n, ok := program.ABINames().Lookup(tok); ok {
			return n, nil
		}
	}

	digits, ok := strings.CutPrefix(tok, "x")
	if !ok || digits == "" || !isDecimal(digits) {
		return 0, newOperandError(ErrInvalidRegister, "%q", tok)
	}

	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil || n > 31 {
		return 0, newOperandError(ErrInvalidRegister, "%q", tok)
	}

	return uint32(n), nil
}

// ResolveValue parses an immediate, label reference or offset(reg)
// token. For offset(reg) only the offset is returned; the register part
// is left to the caller.
func (r Resolver) ResolveValue(tok string, labels LabelTable) (int64, error) {
	if off, _, ok := SplitOffset(tok); ok {
		if off == "" {
			return 0, nil
		}

		return r.resolvePlain(off, labels)
	}

	return r.resolvePlain(tok, labels)
}

func (r Resolver) resolvePlain(tok string, labels LabelTable) (int64, error) {
	if addr, ok := labels.Lookup(tok); ok {
		return int64(addr), nil
	}

	if v, ok := parseLiteral(tok); ok {
		return v, nil
	}

	if isIdentifier(tok) {
		return 0, newOperandError(ErrUndefinedLabel, "%q", tok)
	}

	return 0, newOperandError(ErrInvalidImmediate, "%q", tok)
}

// SplitOffset splits "offset(reg)" into its parts. ok is false when the
// token does not have that shape.
func SplitOffset(tok string) (offset, reg string, ok bool) {
	open := strings.IndexByte(tok, '(')
	if open < 0 || !strings.HasSuffix(tok, ")") {
		return "", "", false
	}

	reg = tok[open+1 : len(tok)-1]
	if reg == "" || strings.ContainsAny(reg, "()") {
		return "", "", false
	}

	return strings.TrimSpace(tok[:open]), strings.TrimSpace(reg), true
}

// parseLiteral accepts signed decimal and 0x-prefixed hexadecimal.
func parseLiteral(tok string) (int64, bool) {
	body := tok
	neg := false

	switch {
	case strings.HasPrefix(body, "-"):
		neg = true
		body = body[1:]
	case strings.HasPrefix(body, "+"):
		body = body[1:]
	}

	base := 10
	if hex, ok := cutHexPrefix(body); ok {
		base = 16
		body = hex
	}

	if body == "" || strings.ContainsAny(body, "+-_") {
		return 0, false
	}

	u, err := strconv.ParseUint(body, base, 63)
	if err != nil {
		return 0, false
	}

	v := int64(u)
	if neg {
		v = -v
	}

	return v, true
}

func cutHexPrefix(s string) (string, bool) {
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		return rest, true
	}

	return strings.CutPrefix(s, "0X")
}

func isDecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == '.':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}
