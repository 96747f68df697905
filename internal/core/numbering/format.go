// Package numbering compiles invoice number format strings and evaluates
// them against a document. A format is literal text interspersed with
// placeholders in angle brackets, e.g. "INV-<year>-<counter:vendor:4>".
package numbering

import (
	"strconv"
	"strings"
)

// Scope names the entity whose sequential counter a counter placeholder
// draws from.
type Scope string

const (
	ScopeVendor   Scope = "vendor"
	ScopeCustomer Scope = "customer"
)

// DefaultCounterWidth is the zero-padding width used when a counter
// placeholder does not specify one. Width 1 means no padding.
const DefaultCounterWidth = 1

type elementKind int

const (
	kindLiteral elementKind = iota
	kindYear
	kindMonth
	kindDay
	kindCustomer
	kindVendor
	kindCounter
)

// Element is one compiled piece of a format string: either a literal or a
// placeholder variant. The set of variants is closed; evaluation switches
// over the kind exhaustively.
type Element struct {
	kind    elementKind
	literal string

	// counter placeholders only
	scope      Scope
	occurrence int
	width      int
}

// Format is a compiled format string, ready for repeated evaluation.
type Format struct {
	source   string
	elements []Element
}

// Source returns the original format string.
func (f Format) Source() string { return f.source }

// Compile parses source into its element list. Compilation never fails:
// unknown placeholder names and malformed counter arguments degrade to
// literal text, and an unterminated placeholder marker is dropped.
// Counter occurrence indices are assigned per scope in source order so
// several counters of one scope preview as consecutive values.
func Compile(source string) Format {
	var elements []Element
	occurrences := map[Scope]int{}

	rest := source
	for rest != "" {
		open := strings.IndexByte(rest, '<')
		if open < 0 {
			elements = appendLiteral(elements, rest)
			break
		}
		elements = appendLiteral(elements, rest[:open])
		closing := strings.IndexByte(rest[open+1:], '>')
		if closing < 0 {
			elements = appendLiteral(elements, rest[open+1:])
			break
		}
		body := rest[open+1 : open+1+closing]
		elements = appendElement(elements, body, occurrences)
		rest = rest[open+1+closing+1:]
	}

	return Format{source: source, elements: elements}
}

func appendLiteral(elements []Element, text string) []Element {
	if text == "" {
		return elements
	}
	return append(elements, Element{kind: kindLiteral, literal: text})
}

func appendElement(elements []Element, body string, occurrences map[Scope]int) []Element {
	switch body {
	case "year":
		return append(elements, Element{kind: kindYear})
	case "month":
		return append(elements, Element{kind: kindMonth})
	case "day":
		return append(elements, Element{kind: kindDay})
	case "customer":
		return append(elements, Element{kind: kindCustomer})
	case "vendor":
		return append(elements, Element{kind: kindVendor})
	}

	if body == "counter" || strings.HasPrefix(body, "counter:") {
		if el, ok := parseCounter(body); ok {
			el.occurrence = occurrences[el.scope]
			occurrences[el.scope]++
			return append(elements, el)
		}
	}

	// Unrecognized bodies are kept as literal text rather than rejected.
	return appendLiteral(elements, body)
}

func parseCounter(body string) (Element, bool) {
	el := Element{kind: kindCounter, scope: ScopeVendor, width: DefaultCounterWidth}
	args := strings.Split(body, ":")[1:]
	if len(args) > 2 {
		return Element{}, false
	}
	if len(args) > 0 {
		switch Scope(args[0]) {
		case ScopeVendor, ScopeCustomer:
			el.scope = Scope(args[0])
		default:
			return Element{}, false
		}
	}
	if len(args) > 1 {
		width, err := strconv.Atoi(args[1])
		if err != nil || width < 1 {
			return Element{}, false
		}
		el.width = width
	}
	return el, true
}
