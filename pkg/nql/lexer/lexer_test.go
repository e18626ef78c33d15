package lexer

import "testing"

func collectTypes(input string) []TokenType {
	l := New(input)
	var out []TokenType
	for {
		tok := l.NextToken()
		out = append(out, tok.Type)
		if tok.Type == EOF {
			return out
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	got := collectTypes("SELECT * FROM users WHERE id = 1")
	want := []TokenType{SELECT, STAR, FROM, IDENT, WHERE, IDENT, EQ, INT, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestKeywordCaseInsensitive(t *testing.T) {
	l := New("select FROM fRoM")
	tok := l.NextToken()
	if tok.Type != SELECT {
		t.Fatalf("got %v, want SELECT", tok.Type)
	}
	tok = l.NextToken()
	if tok.Type != FROM {
		t.Fatalf("got %v, want FROM", tok.Type)
	}
	tok = l.NextToken()
	if tok.Type != FROM {
		t.Fatalf("got %v, want FROM", tok.Type)
	}
}

func TestNumberLiterals(t *testing.T) {
	l := New("42 3.14 7")
	tok := l.NextToken()
	if tok.Type != INT || tok.Literal != "42" {
		t.Fatalf("got %v %q", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != FLOAT || tok.Literal != "3.14" {
		t.Fatalf("got %v %q", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != INT || tok.Literal != "7" {
		t.Fatalf("got %v %q", tok.Type, tok.Literal)
	}
}

func TestStringLiteralWithEscapes(t *testing.T) {
	l := New(`"hello\nworld\t\"quoted\""`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("got %v, want STRING", tok.Type)
	}
	want := "hello\nworld\t\"quoted\""
	if tok.Literal != want {
		t.Fatalf("got %q, want %q", tok.Literal, want)
	}
}

func TestUnterminatedStringIsIllegal(t *testing.T) {
	l := New(`"no closing quote`)
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("got %v, want ILLEGAL", tok.Type)
	}
}

func TestTwoCharOperators(t *testing.T) {
	got := collectTypes("<> <= >= != < >")
	want := []TokenType{NEQ, LTE, GTE, NEQ, LT, GT, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLineCommentSkipped(t *testing.T) {
	got := collectTypes("SELECT -- this is a comment\nFROM t")
	want := []TokenType{SELECT, FROM, IDENT, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBlockCommentSkipped(t *testing.T) {
	got := collectTypes("SELECT /* multi\nline comment */ FROM t")
	want := []TokenType{SELECT, FROM, IDENT, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	l := New("SELECT\nFROM")
	tok := l.NextToken()
	if tok.Pos.Line != 1 {
		t.Fatalf("SELECT line = %d, want 1", tok.Pos.Line)
	}
	tok = l.NextToken()
	if tok.Pos.Line != 2 {
		t.Fatalf("FROM line = %d, want 2", tok.Pos.Line)
	}
}

func TestPunctuationAndArithmeticOperators(t *testing.T) {
	got := collectTypes("(a, b) . + - * /")
	want := []TokenType{LPAREN, IDENT, COMMA, IDENT, RPAREN, DOT, PLUS, MINUS, STAR, SLASH, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIllegalCharacter(t *testing.T) {
	tok := New("@").NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("got %v, want ILLEGAL", tok.Type)
	}
}
