package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/smscr/smscrd/script/tree"
)

// splitPreservingQuotes splits a normalized tag body on single spaces,
// keeping quoted strings (and the spaces inside them) intact as one piece.
func splitPreservingQuotes(body string) ([]string, error) {
	var pieces []string
	var cur strings.Builder
	inQuote := false
	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '"' {
			escaped := false
			n := 0
			for j := i - 1; j >= 0 && runes[j] == '\\'; j-- {
				n++
			}
			escaped = n%2 == 1
			if !escaped {
				inQuote = !inQuote
			}
			cur.WriteRune(c)
			continue
		}
		if c == ' ' && !inQuote {
			if cur.Len() > 0 {
				pieces = append(pieces, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(c)
	}
	if inQuote {
		return nil, errors.Wrap(ErrParse, "unterminated quoted string")
	}
	if cur.Len() > 0 {
		pieces = append(pieces, cur.String())
	}
	return pieces, nil
}

// isValidVariableName reports whether s starts with a letter and is
// followed only by alphanumerics or underscores.
func isValidVariableName(s string) bool {
	if s == "" {
		return false
	}
	runes := []rune(s)
	if !unicode.IsLetter(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

// parseNumber tries integer first (optionally signed, decimal digits only),
// then double.
func parseNumber(s string) (tree.Element, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return tree.IntLit(n), true
	}
	if isPlainDecimal(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return tree.DoubleLit(f), true
		}
	}
	return tree.Element{}, false
}

// isPlainDecimal rejects strconv.ParseFloat extensions (hex floats, inf, nan)
// that are not part of the Smart Script number grammar: optional sign,
// decimal digits, optional '.' with more digits.
func isPlainDecimal(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digitsBefore := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digitsBefore++
	}
	if i < len(s) && s[i] == '.' {
		i++
		digitsAfter := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digitsAfter++
		}
		if digitsAfter == 0 {
			return false
		}
	} else if digitsBefore == 0 {
		return false
	}
	return i == len(s) && digitsBefore > 0
}

// parseQuotedString parses a quoted string literal, expanding escapes and
// stripping the enclosing quotes. The second result is false (with no
// error) when s is not enclosed in quotes; an unknown escape or a trailing
// bare backslash fails.
func parseQuotedString(s string) (string, bool, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", false, nil
	}
	inner := s[1 : len(s)-1]
	var sb strings.Builder
	runes := []rune(inner)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '\\' {
			sb.WriteRune(c)
			continue
		}
		if i+1 >= len(runes) {
			return "", true, errors.Wrap(ErrParse, "quoted string ends with bare backslash")
		}
		next := runes[i+1]
		switch next {
		case '\\':
			sb.WriteRune('\\')
		case '"':
			sb.WriteRune('"')
		case 'n':
			sb.WriteRune('\n')
		case 'r':
			sb.WriteRune('\r')
		case 't':
			sb.WriteRune('\t')
		default:
			return "", true, errors.Wrapf(ErrParse, "unknown string escape \\%c", next)
		}
		i++
	}
	return sb.String(), true, nil
}

// parseForSlotElement parses one of the 3/4 remaining FOR slots: a
// variable, a quoted string, or a number. Functions and operators are
// not permitted.
func parseForSlotElement(s string) (tree.Element, error) {
	if isValidVariableName(s) {
		return tree.Variable(s), nil
	}
	if str, ok, err := parseQuotedString(s); err != nil {
		return tree.Element{}, err
	} else if ok {
		return tree.StringLit(str), nil
	}
	if num, ok := parseNumber(s); ok {
		return num, nil
	}
	return tree.Element{}, errors.Wrapf(ErrParse, "%q is not a variable, string, or number", s)
}

var operators = map[string]bool{"+": true, "-": true, "*": true, "/": true, "^": true}

// parseEchoElement parses one Echo-tag element: variable, quoted string,
// number, function reference (@name), or operator.
func parseEchoElement(s string) (tree.Element, error) {
	if isValidVariableName(s) {
		return tree.Variable(s), nil
	}
	if str, ok, err := parseQuotedString(s); err != nil {
		return tree.Element{}, err
	} else if ok {
		return tree.StringLit(str), nil
	}
	if num, ok := parseNumber(s); ok {
		return num, nil
	}
	if strings.HasPrefix(s, "@") && isValidVariableName(s[1:]) {
		return tree.Function(s[1:]), nil
	}
	if operators[s] {
		return tree.Operator(s), nil
	}
	return tree.Element{}, errors.Wrapf(ErrParse, "%q is not a variable, string, number, function, or operator", s)
}
