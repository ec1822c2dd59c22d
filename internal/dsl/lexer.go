package dsl

import (
	"unicode"
	"unicode/utf8"
)

// tokenType is the lexical class of a token.
type tokenType int

const (
	tokenEOF tokenType = iota
	tokenLBrace
	tokenRBrace
	tokenWord    // keyword, tag.operator head, or bare literal
	tokenString  // quoted literal, quotes stripped
	tokenTyped   // parenthesised literal such as (3i), parens stripped
	tokenIllegal // unterminated quote or literal
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "end of input"
	case tokenLBrace:
		return "'{'"
	case tokenRBrace:
		return "'}'"
	case tokenWord:
		return "word"
	case tokenString:
		return "quoted string"
	case tokenTyped:
		return "typed literal"
	default:
		return "illegal token"
	}
}

// token is a lexical token with the byte offset where it starts.
type token struct {
	typ   tokenType
	value string
	pos   int
}

// lexer tokenizes DSL input. One lexer per parse call; it is never shared.
type lexer struct {
	input string
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

// next returns the next token.
func (l *lexer) next() token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return token{typ: tokenEOF, pos: l.pos}
	}

	start := l.pos
	switch ch := l.input[l.pos]; ch {
	case '{':
		l.pos++
		return token{typ: tokenLBrace, value: "{", pos: start}
	case '}':
		l.pos++
		return token{typ: tokenRBrace, value: "}", pos: start}
	case '\'', '"':
		return l.readDelimited(ch, ch, tokenString)
	case '(':
		return l.readDelimited('(', ')', tokenTyped)
	}
	return l.readWord()
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// readDelimited reads from an opening delimiter to its closing one. There are
// no escapes: a quoted literal cannot contain its own quote character.
func (l *lexer) readDelimited(open, closing byte, typ tokenType) token {
	start := l.pos
	l.pos++ // skip opening delimiter
	for l.pos < len(l.input) && l.input[l.pos] != closing {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{typ: tokenIllegal, value: l.input[start:], pos: start}
	}
	value := l.input[start+1 : l.pos]
	l.pos++ // skip closing delimiter
	return token{typ: typ, value: value, pos: start}
}

// readWord reads up to whitespace or a structural character.
func (l *lexer) readWord() token {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if unicode.IsSpace(r) || isDelimiter(r) {
			break
		}
		l.pos += size
	}
	if l.pos == start {
		// Stray ')' with no opening paren.
		l.pos++
		return token{typ: tokenIllegal, value: l.input[start:l.pos], pos: start}
	}
	return token{typ: tokenWord, value: l.input[start:l.pos], pos: start}
}

func isDelimiter(r rune) bool {
	switch r {
	case '{', '}', '\'', '"', '(', ')':
		return true
	default:
		return false
	}
}
