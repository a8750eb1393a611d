package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Position is a 1-based line/column location in source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SyntaxError reports a reader or parser failure.
type SyntaxError struct {
	Pos     Position
	Message string
	// Incomplete is set when the input ended inside a form, so more text
	// could still make it readable.
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	if e.Pos.Line == 0 {
		return fmt.Sprintf("parser: %s", e.Message)
	}
	return fmt.Sprintf("parser: %s at %s", e.Message, e.Pos)
}

// SExp is the reader's output: a symbolic-expression tree with positions.
type SExp interface {
	Position() Position
	isSExp()
}

type AtomKind int

const (
	AtomNumber AtomKind = iota
	AtomBoolean
	AtomString
	AtomSymbol
)

type Atom struct {
	Kind   AtomKind
	Text   string
	Number float64
	Bool   bool
	Str    string
	Pos    Position
}

func (a *Atom) Position() Position { return a.Pos }
func (*Atom) isSExp()              {}

// List is a parenthesised form. Tail is non-nil for dotted lists.
type List struct {
	Items []SExp
	Tail  SExp
	Pos   Position
}

func (l *List) Position() Position { return l.Pos }
func (*List) isSExp()              {}

// BraceEntry is one `key: value` pair inside braces.
type BraceEntry struct {
	Key   string
	Value SExp
	Pos   Position
}

// Braces is the `{key: value, ...}` dictionary literal form.
type Braces struct {
	Entries []BraceEntry
	Pos     Position
}

func (b *Braces) Position() Position { return b.Pos }
func (*Braces) isSExp()              {}

type tokenKind int

const (
	tokOpen tokenKind = iota
	tokClose
	tokOpenBrace
	tokCloseBrace
	tokQuote
	tokColon
	tokComma
	tokString
	tokAtom
)

type token struct {
	kind tokenKind
	text string
	pos  Position
}

type scanner struct {
	src  string
	off  int
	line int
	col  int
}

func (s *scanner) atEnd() bool { return s.off >= len(s.src) }

func (s *scanner) peek() rune {
	if s.atEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.off:])
	return r
}

func (s *scanner) advance() rune {
	r, size := utf8.DecodeRuneInString(s.src[s.off:])
	s.off += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

func (s *scanner) position() Position { return Position{Line: s.line, Column: s.col} }

func isDelimiter(r rune) bool {
	switch r {
	case '(', ')', '{', '}', '\'', '"', ';', ':', ',':
		return true
	}
	return unicode.IsSpace(r)
}

func tokenize(src string) ([]token, error) {
	s := &scanner{src: src, line: 1, col: 1}
	tokens := make([]token, 0, 32)
	for !s.atEnd() {
		r := s.peek()
		start := s.position()
		switch {
		case unicode.IsSpace(r):
			s.advance()
		case r == ';':
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
		case r == '(' || r == '[':
			s.advance()
			tokens = append(tokens, token{kind: tokOpen, text: "(", pos: start})
		case r == ')' || r == ']':
			s.advance()
			tokens = append(tokens, token{kind: tokClose, text: ")", pos: start})
		case r == '{':
			s.advance()
			tokens = append(tokens, token{kind: tokOpenBrace, text: "{", pos: start})
		case r == '}':
			s.advance()
			tokens = append(tokens, token{kind: tokCloseBrace, text: "}", pos: start})
		case r == '\'':
			s.advance()
			tokens = append(tokens, token{kind: tokQuote, text: "'", pos: start})
		case r == ':':
			s.advance()
			tokens = append(tokens, token{kind: tokColon, text: ":", pos: start})
		case r == ',':
			s.advance()
			tokens = append(tokens, token{kind: tokComma, text: ",", pos: start})
		case r == '"':
			str, err := scanString(s)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokString, text: str, pos: start})
		default:
			var b strings.Builder
			for !s.atEnd() && !isDelimiter(s.peek()) {
				b.WriteRune(s.advance())
			}
			tokens = append(tokens, token{kind: tokAtom, text: b.String(), pos: start})
		}
	}
	return tokens, nil
}

func scanString(s *scanner) (string, error) {
	start := s.position()
	s.advance() // opening quote
	var b strings.Builder
	for {
		if s.atEnd() {
			return "", &SyntaxError{Pos: start, Message: "unterminated string literal", Incomplete: true}
		}
		r := s.advance()
		switch r {
		case '"':
			return b.String(), nil
		case '\\':
			if s.atEnd() {
				return "", &SyntaxError{Pos: start, Message: "unterminated string escape", Incomplete: true}
			}
			esc := s.advance()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(r)
		}
	}
}

type reader struct {
	tokens []token
	index  int
}

func (r *reader) peek() (token, bool) {
	if r.index >= len(r.tokens) {
		return token{}, false
	}
	return r.tokens[r.index], true
}

func (r *reader) next() (token, bool) {
	t, ok := r.peek()
	if ok {
		r.index++
	}
	return t, ok
}

func (r *reader) endPosition() Position {
	if len(r.tokens) == 0 {
		return Position{Line: 1, Column: 1}
	}
	return r.tokens[len(r.tokens)-1].pos
}

// Read tokenizes src and reads every top-level S-expression in it.
func Read(src string) ([]SExp, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	r := &reader{tokens: tokens}
	var out []SExp
	for {
		if _, ok := r.peek(); !ok {
			return out, nil
		}
		form, err := r.readForm()
		if err != nil {
			return nil, err
		}
		out = append(out, form)
	}
}

// ReadOne reads exactly one S-expression from src.
func ReadOne(src string) (SExp, error) {
	forms, err := Read(src)
	if err != nil {
		return nil, err
	}
	switch len(forms) {
	case 0:
		return nil, &SyntaxError{Message: "expected an expression, got end of input"}
	case 1:
		return forms[0], nil
	default:
		return nil, &SyntaxError{Pos: forms[1].Position(), Message: "unexpected trailing input"}
	}
}

func (r *reader) readForm() (SExp, error) {
	t, ok := r.next()
	if !ok {
		return nil, &SyntaxError{Pos: r.endPosition(), Message: "expected form, got end of input", Incomplete: true}
	}
	switch t.kind {
	case tokOpen:
		return r.readList(t.pos)
	case tokOpenBrace:
		return r.readBraces(t.pos)
	case tokQuote:
		quoted, err := r.readForm()
		if err != nil {
			return nil, err
		}
		quote := &Atom{Kind: AtomSymbol, Text: "quote", Pos: t.pos}
		return &List{Items: []SExp{quote, quoted}, Pos: t.pos}, nil
	case tokString:
		return &Atom{Kind: AtomString, Text: t.text, Str: t.text, Pos: t.pos}, nil
	case tokAtom:
		if t.text == "." {
			return nil, &SyntaxError{Pos: t.pos, Message: "unexpected '.'"}
		}
		return classifyAtom(t), nil
	default:
		return nil, &SyntaxError{Pos: t.pos, Message: fmt.Sprintf("unexpected %q", t.text)}
	}
}

func (r *reader) readList(pos Position) (SExp, error) {
	list := &List{Pos: pos}
	for {
		t, ok := r.peek()
		if !ok {
			return nil, &SyntaxError{Pos: pos, Message: "unterminated list", Incomplete: true}
		}
		switch {
		case t.kind == tokClose:
			r.index++
			return list, nil
		case t.kind == tokAtom && t.text == ".":
			if len(list.Items) == 0 {
				return nil, &SyntaxError{Pos: t.pos, Message: "dotted pair requires a head"}
			}
			r.index++
			tail, err := r.readForm()
			if err != nil {
				return nil, err
			}
			closing, ok := r.next()
			if !ok || closing.kind != tokClose {
				return nil, &SyntaxError{Pos: t.pos, Message: "expected ')' after dotted tail", Incomplete: !ok}
			}
			list.Tail = tail
			return list, nil
		default:
			item, err := r.readForm()
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		}
	}
}

func (r *reader) readBraces(pos Position) (SExp, error) {
	braces := &Braces{Pos: pos}
	for {
		t, ok := r.next()
		if !ok {
			return nil, &SyntaxError{Pos: pos, Message: "unterminated dictionary literal", Incomplete: true}
		}
		switch t.kind {
		case tokCloseBrace:
			return braces, nil
		case tokComma:
			continue
		case tokAtom:
		default:
			return nil, &SyntaxError{Pos: t.pos, Message: fmt.Sprintf("expected dictionary key, got %q", t.text)}
		}
		key := classifyAtom(t)
		if key.Kind != AtomSymbol {
			return nil, &SyntaxError{Pos: t.pos, Message: fmt.Sprintf("dictionary key must be a symbol, got %q", t.text)}
		}
		colon, ok := r.next()
		if !ok || colon.kind != tokColon {
			return nil, &SyntaxError{Pos: t.pos, Message: fmt.Sprintf("expected ':' after dictionary key %q", t.text), Incomplete: !ok}
		}
		value, err := r.readForm()
		if err != nil {
			return nil, err
		}
		braces.Entries = append(braces.Entries, BraceEntry{Key: key.Text, Value: value, Pos: t.pos})
	}
}

func classifyAtom(t token) *Atom {
	switch t.text {
	case "#t", "#true":
		return &Atom{Kind: AtomBoolean, Text: t.text, Bool: true, Pos: t.pos}
	case "#f", "#false":
		return &Atom{Kind: AtomBoolean, Text: t.text, Bool: false, Pos: t.pos}
	}
	if looksNumeric(t.text) {
		if n, err := strconv.ParseFloat(t.text, 64); err == nil {
			return &Atom{Kind: AtomNumber, Text: t.text, Number: n, Pos: t.pos}
		}
	}
	return &Atom{Kind: AtomSymbol, Text: t.text, Pos: t.pos}
}

// looksNumeric keeps words such as "inf" and "nan" symbolic.
func looksNumeric(text string) bool {
	i := 0
	if i < len(text) && (text[i] == '+' || text[i] == '-') {
		i++
	}
	if i < len(text) && text[i] == '.' {
		i++
	}
	return i < len(text) && text[i] >= '0' && text[i] <= '9'
}
