package compiler

import "testing"

func tokenTypes(source string) []TokenType {
	s := NewScanner(source)
	var types []TokenType
	for {
		tok := s.Next()
		types = append(types, tok.Type)
		if tok.Type == TokenEOF {
			return types
		}
	}
}

func TestScannerPunctuationAndOperators(t *testing.T) {
	got := tokenTypes("( ) { } [ ] , . - + ; / * ! != = == < <= > >=")
	want := []TokenType{
		TokenLeftParen, TokenRightParen, TokenLeftBrace, TokenRightBrace,
		TokenLeftBracket, TokenRightBracket, TokenComma, TokenDot, TokenMinus,
		TokenPlus, TokenSemicolon, TokenSlash, TokenStar, TokenBang,
		TokenBangEqual, TokenEqual, TokenEqualEqual, TokenLess, TokenLessEqual,
		TokenGreater, TokenGreaterEqual, TokenEOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScannerKeywords(t *testing.T) {
	for word, want := range keywords {
		s := NewScanner(word)
		tok := s.Next()
		if tok.Type != want {
			t.Errorf("%q: got %v, want %v", word, tok.Type, want)
		}
	}
}

func TestScannerIdentifierNotKeyword(t *testing.T) {
	s := NewScanner("className")
	tok := s.Next()
	if tok.Type != TokenIdentifier {
		t.Errorf("got %v, want TokenIdentifier", tok.Type)
	}
}

func TestScannerNumber(t *testing.T) {
	s := NewScanner("3.14")
	tok := s.Next()
	if tok.Type != TokenNumber || tok.Lexeme != "3.14" {
		t.Errorf("got %v %q", tok.Type, tok.Lexeme)
	}
}

func TestScannerStringEscapes(t *testing.T) {
	s := NewScanner(`"a\nb\t\"c\""`)
	tok := s.Next()
	if tok.Type != TokenString {
		t.Fatalf("got %v", tok.Type)
	}
	if tok.Literal != "a\nb\t\"c\"" {
		t.Errorf("got %q", tok.Literal)
	}
}

func TestScannerUnterminatedString(t *testing.T) {
	s := NewScanner(`"unterminated`)
	tok := s.Next()
	if tok.Type != TokenError {
		t.Errorf("got %v, want TokenError", tok.Type)
	}
}

func TestScannerLineComment(t *testing.T) {
	s := NewScanner("1 // this is ignored\n2")
	first := s.Next()
	second := s.Next()
	if first.Lexeme != "1" || second.Lexeme != "2" {
		t.Errorf("got %q %q", first.Lexeme, second.Lexeme)
	}
}

func TestScannerTracksLineNumbers(t *testing.T) {
	s := NewScanner("1\n2\n3")
	var lines []int
	for {
		tok := s.Next()
		if tok.Type == TokenEOF {
			break
		}
		lines = append(lines, tok.Line)
	}
	if len(lines) != 3 || lines[0] != 1 || lines[1] != 2 || lines[2] != 3 {
		t.Errorf("got %v", lines)
	}
}
