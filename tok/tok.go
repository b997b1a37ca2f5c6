// Package tok implements a small, generic character-level tokenizer:
// whitespace/delimiter/reserved-word splitting, optional "raw region"
// pass-through, and line-number tracking. It has no knowledge of the IR's
// own grammar — package parse configures and drives it.
package tok

import (
	"sort"
	"strings"

	"github.com/nikandfor/errors"
)

// Options configures a Tokenizer.
type Options struct {
	// Whitespace holds the characters treated as insignificant between
	// tokens. '\n' is always emitted as its own delimiter token
	// regardless of this set; including it here only controls
	// whether the public read operations skip over it silently.
	Whitespace map[byte]bool

	// Delimiters are the multi-character strings that always split off
	// into their own token, even mid-word. When two delimiters both
	// match at a position, the longest wins.
	Delimiters []string

	// Reserved holds words consume_token refuses to return.
	Reserved map[string]bool

	// RawLeft/RawRight, if both non-empty, mark a region whose contents
	// are passed through verbatim as a single token instead of being
	// split on whitespace/delimiters.
	RawLeft, RawRight string
}

type token struct {
	text string
	line int
}

// Tokenizer is a forward-consumable stream of tokens produced from a
// single input string, per the given Options.
type Tokenizer struct {
	opts  Options
	toks  []token
	pos   int
	delim []string // opts.Delimiters, longest first
}

// SyntaxError is the panic value for every failure path: an
// unmatched raw delimiter, a delimiter/reserved word where a plain token
// was required, or running out of input where a token was required.
type SyntaxError struct {
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	return "Syntax error on line " + itoa(e.Line) + ": " + e.Message
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func fatal(line int, format string, args ...any) {
	panic(&SyntaxError{Line: line, Message: errors.New(format, args...).Error()})
}

// New tokenizes text under opts. Panics with a *SyntaxError on an
// unmatched raw-region delimiter (the only failure possible at tokenize
// time; all other syntax errors are detected by the read operations
// below, since they depend on grammar-level expectations tok itself does
// not know).
func New(text string, opts Options) *Tokenizer {
	t := &Tokenizer{opts: opts}

	t.delim = append([]string(nil), opts.Delimiters...)
	sort.Slice(t.delim, func(i, j int) bool { return len(t.delim[i]) > len(t.delim[j]) })

	t.scan(text)

	return t
}

func (t *Tokenizer) scan(text string) {
	line := 1
	i := 0
	n := len(text)

	rawEnabled := t.opts.RawLeft != "" && t.opts.RawRight != ""

	for i < n {
		if rawEnabled && strings.HasPrefix(text[i:], t.opts.RawLeft) {
			t.toks = append(t.toks, token{text: t.opts.RawLeft, line: line})
			i += len(t.opts.RawLeft)

			idx := strings.Index(text[i:], t.opts.RawRight)
			if idx < 0 {
				fatal(line, "unmatched raw delimiter %q", t.opts.RawLeft)
			}

			payload := text[i : i+idx]
			t.toks = append(t.toks, token{text: payload, line: line})
			line += strings.Count(payload, "\n")
			i += idx

			t.toks = append(t.toks, token{text: t.opts.RawRight, line: line})
			i += len(t.opts.RawRight)
			continue
		}

		c := text[i]

		if c == '\n' {
			t.toks = append(t.toks, token{text: "\n", line: line})
			line++
			i++
			continue
		}

		if t.opts.Whitespace[c] {
			i++
			continue
		}

		j := i
		for j < n && text[j] != '\n' && !t.opts.Whitespace[text[j]] {
			if rawEnabled && strings.HasPrefix(text[j:], t.opts.RawLeft) {
				break
			}
			j++
		}

		t.splitWord(text[i:j], line)
		i = j
	}
}

// splitWord splits a whitespace-delimited word further on delimiter
// strings, each delimiter becoming its own token, longest match first.
func (t *Tokenizer) splitWord(word string, line int) {
	k := 0
	for k < len(word) {
		if d := t.matchDelim(word[k:]); d != "" {
			t.toks = append(t.toks, token{text: d, line: line})
			k += len(d)
			continue
		}

		start := k
		for k < len(word) && t.matchDelim(word[k:]) == "" {
			k++
		}
		t.toks = append(t.toks, token{text: word[start:k], line: line})
	}
}

func (t *Tokenizer) matchDelim(s string) string {
	for _, d := range t.delim {
		if strings.HasPrefix(s, d) {
			return d
		}
	}
	return ""
}

// skipInvisible advances past any leading "\n" tokens, if '\n' is
// configured as whitespace.
func (t *Tokenizer) skipInvisible() {
	for t.pos < len(t.toks) && t.toks[t.pos].text == "\n" && t.opts.Whitespace['\n'] {
		t.pos++
	}
}

func (t *Tokenizer) curLine() int {
	if t.pos < len(t.toks) {
		return t.toks[t.pos].line
	}
	if len(t.toks) > 0 {
		return t.toks[len(t.toks)-1].line
	}
	return 1
}

// EndOfInput reports whether there are no more (visible) tokens.
func (t *Tokenizer) EndOfInput() bool {
	t.skipInvisible()
	return t.pos >= len(t.toks)
}

// Peek reports whether the next visible token equals s, without consuming
// it.
func (t *Tokenizer) Peek(s string) bool {
	t.skipInvisible()
	return t.pos < len(t.toks) && t.toks[t.pos].text == s
}

// PeekAhead returns the text of the token `ahead` visible tokens forward
// (0 = the next token), or "" if that is past the end of input. Invisible
// "\n" tokens are skipped when counting ahead, matching Peek/consume.
func (t *Tokenizer) PeekAhead(ahead int) string {
	pos := t.pos
	seen := 0
	for pos < len(t.toks) {
		if t.toks[pos].text == "\n" && t.opts.Whitespace['\n'] {
			pos++
			continue
		}
		if seen == ahead {
			return t.toks[pos].text
		}
		seen++
		pos++
	}
	return ""
}

// Consume requires the next visible token to equal s. Fatal otherwise.
func (t *Tokenizer) Consume(s string) {
	t.skipInvisible()
	if t.pos >= len(t.toks) || t.toks[t.pos].text != s {
		fatal(t.curLine(), "expected %q", s)
	}
	t.pos++
}

// TryConsume consumes the next visible token if it equals s, and reports
// whether it did. Leaves the stream unchanged otherwise.
func (t *Tokenizer) TryConsume(s string) bool {
	if !t.Peek(s) {
		return false
	}
	t.pos++
	return true
}

// ConsumeToken consumes and returns the next visible token, rejecting
// delimiters and reserved words. Fatal at end of input, on a delimiter, or
// on a reserved word.
func (t *Tokenizer) ConsumeToken() string {
	t.skipInvisible()
	if t.pos >= len(t.toks) {
		fatal(t.curLine(), "unexpected end of input, expected a token")
	}
	tx := t.toks[t.pos].text
	if t.isDelimiter(tx) {
		fatal(t.curLine(), "unexpected delimiter %q", tx)
	}
	if t.opts.Reserved[tx] {
		fatal(t.curLine(), "unexpected reserved word %q", tx)
	}
	t.pos++
	return tx
}

// ConsumeRaw consumes and returns the next visible token with no
// delimiter/reserved-word check, for reading raw region payloads.
func (t *Tokenizer) ConsumeRaw() string {
	t.skipInvisible()
	if t.pos >= len(t.toks) {
		fatal(t.curLine(), "unexpected end of input")
	}
	tx := t.toks[t.pos].text
	t.pos++
	return tx
}

// ConsumeChar consumes and returns a single character, splitting the
// current token if it is longer than one character.
func (t *Tokenizer) ConsumeChar() byte {
	t.skipInvisible()
	if t.pos >= len(t.toks) {
		fatal(t.curLine(), "unexpected end of input, expected a character")
	}
	tx := t.toks[t.pos].text
	if tx == "" {
		fatal(t.curLine(), "unexpected empty token")
	}
	c := tx[0]
	if len(tx) == 1 {
		t.pos++
		return c
	}
	t.toks[t.pos] = token{text: tx[1:], line: t.toks[t.pos].line}
	return c
}

// IsNextReserved reports whether the next visible token is a reserved
// word.
func (t *Tokenizer) IsNextReserved() bool {
	t.skipInvisible()
	return t.pos < len(t.toks) && t.opts.Reserved[t.toks[t.pos].text]
}

// IsNextDelimiter reports whether the next visible token is one of the
// configured delimiter strings.
func (t *Tokenizer) IsNextDelimiter() bool {
	t.skipInvisible()
	return t.pos < len(t.toks) && t.isDelimiter(t.toks[t.pos].text)
}

// PutBack pushes s back onto the front of the stream as the next token to
// be consumed, at the current line.
func (t *Tokenizer) PutBack(s string) {
	line := t.curLine()
	rest := append([]token(nil), t.toks[t.pos:]...)
	t.toks = append(t.toks[:t.pos], append([]token{{text: s, line: line}}, rest...)...)
}

func (t *Tokenizer) isDelimiter(s string) bool {
	for _, d := range t.opts.Delimiters {
		if d == s {
			return true
		}
	}
	return false
}

// Line returns the source line of the next visible token (or of the last
// token, at end of input), for callers that want to attach their own
// diagnostics.
func (t *Tokenizer) Line() int {
	t.skipInvisible()
	return t.curLine()
}
