package tree

import (
	"strconv"
	"strings"
)

// Render reconstructs script source from a document tree. Parsing the
// rendered source yields a tree equal to the one rendered: text is
// re-escaped, quoted strings get their escapes back, and doubles always
// carry a decimal point so they reparse as doubles.
func Render(n *Node) string {
	var sb strings.Builder
	renderNode(&sb, n)
	return sb.String()
}

func renderNode(sb *strings.Builder, n *Node) {
	switch n.Kind {
	case KindDocument:
		for _, child := range n.Children {
			renderNode(sb, child)
		}
	case KindText:
		sb.WriteString(escapeText(n.Text))
	case KindForLoop:
		sb.WriteString("{$ FOR ")
		sb.WriteString(n.Var)
		sb.WriteByte(' ')
		sb.WriteString(renderElement(n.Start))
		sb.WriteByte(' ')
		sb.WriteString(renderElement(n.End))
		if n.HasStep {
			sb.WriteByte(' ')
			sb.WriteString(renderElement(n.Step))
		}
		sb.WriteString(" $}")
		for _, child := range n.Children {
			renderNode(sb, child)
		}
		sb.WriteString("{$ END $}")
	case KindEcho:
		sb.WriteString("{$=")
		for _, el := range n.Elements {
			sb.WriteByte(' ')
			sb.WriteString(renderElement(el))
		}
		sb.WriteString(" $}")
	}
}

func renderElement(el Element) string {
	switch el.Kind {
	case ElemVariable:
		return el.Name
	case ElemString:
		return quoteString(el.Str)
	case ElemInt:
		return strconv.FormatInt(el.Int, 10)
	case ElemDouble:
		s := strconv.FormatFloat(el.Double, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case ElemFunction:
		return "@" + el.Name
	case ElemOperator:
		return el.Name
	default:
		return ""
	}
}

// escapeText re-applies the plain-text escapes the lexer expands.
func escapeText(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '{':
			sb.WriteString(`\{`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// quoteString re-applies the string-literal escapes and encloses s in quotes.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
