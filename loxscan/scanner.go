package loxscan

type Scanner struct {
	source  []byte
	start   int
	current int
	line    int
}

func NewScanner(source []byte) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
	}
}

// Next returns the next token. After the end of input it keeps returning TokenEOF.
// Malformed lexemes are returned as TokenError, the scan itself never fails.
func (s *Scanner) Next() Token {
	s.skipWhitespace()
	s.start = s.current

	if s.atEnd() {
		return s.make(TokenEOF)
	}

	c := s.advance()
	switch {
	case isAlpha(c):
		return s.identifier()
	case isDigit(c):
		return s.number()
	}

	switch c {
	case '(':
		return s.make(TokenLeftParen)
	case ')':
		return s.make(TokenRightParen)
	case '{':
		return s.make(TokenLeftBrace)
	case '}':
		return s.make(TokenRightBrace)
	case ';':
		return s.make(TokenSemicolon)
	case ',':
		return s.make(TokenComma)
	case '.':
		return s.make(TokenDot)
	case '-':
		return s.make(TokenMinus)
	case '+':
		return s.make(TokenPlus)
	case '/':
		return s.make(TokenSlash)
	case '*':
		return s.make(TokenStar)
	case '!':
		return s.make(s.pick('=', TokenBangEqual, TokenBang))
	case '=':
		return s.make(s.pick('=', TokenEqualEqual, TokenEqual))
	case '<':
		return s.make(s.pick('=', TokenLessEqual, TokenLess))
	case '>':
		return s.make(s.pick('=', TokenGreaterEqual, TokenGreater))
	case '"':
		return s.stringLiteral()
	}

	return s.errorToken("Unexpected character")
}

// All scans the whole source, including the final TokenEOF.
func (s *Scanner) All() []Token {
	var ret []Token
	for {
		tok := s.Next()
		ret = append(ret, tok)
		if tok.Type == TokenEOF {
			return ret
		}
	}
}

func (s *Scanner) atEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *Scanner) pick(expected byte, matched, otherwise TokenType) TokenType {
	if s.atEnd() || s.source[s.current] != expected {
		return otherwise
	}
	s.current++
	return matched
}

func (s *Scanner) make(typ TokenType) Token {
	return Token{
		Type:  typ,
		Text:  string(s.source[s.start:s.current]),
		Line:  s.line,
		Start: s.start,
		Len:   s.current - s.start,
	}
}

func (s *Scanner) errorToken(message string) Token {
	return Token{
		Type:  TokenError,
		Text:  message,
		Line:  s.line,
		Start: s.start,
		Len:   s.current - s.start,
	}
}

func (s *Scanner) skipWhitespace() {
	for !s.atEnd() {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.current++
		case '\n':
			s.line++
			s.current++
		case '/':
			if s.peekNext() != '/' {
				return
			}
			for !s.atEnd() && s.peek() != '\n' {
				s.current++
			}
		default:
			return
		}
	}
}

func (s *Scanner) stringLiteral() Token {
	for !s.atEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.current++
	}
	if s.atEnd() {
		return s.errorToken("Unterminated string")
	}
	// closing quote
	s.current++
	return s.make(TokenString)
}

func (s *Scanner) number() Token {
	for isDigit(s.peek()) {
		s.current++
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.current++
		for isDigit(s.peek()) {
			s.current++
		}
	}
	return s.make(TokenNumber)
}

func (s *Scanner) identifier() Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.current++
	}
	if typ, ok := keywords[string(s.source[s.start:s.current])]; ok {
		return s.make(typ)
	}
	return s.make(TokenIdentifier)
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
