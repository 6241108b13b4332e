package emoji

import (
	"fmt"
	"unicode/utf8"

	. "parrot/common"
	"parrot/common/snowflake"
)

const (
	TokenUnicode = iota
	TokenCustom  = iota
)

// KindName is the token kind as a label string.
func KindName(kind int) string {
	if kind == TokenCustom {
		return "custom"
	}
	return "unicode"
}

// Token is one emoji occurrence in message text. Unicode tokens carry
// the emoji itself, custom tokens carry the name and id of the
// <:name:id> reference.
type Token struct {
	Kind  int       `json:"kind"`
	Emoji string    `json:"emoji,omitempty"`
	Name  string    `json:"name,omitempty"`
	ID    Snowflake `json:"id,omitempty"`
}

// String renders the token the way it appears in message text.
func (t Token) String() string {
	if t.Kind == TokenCustom {
		return fmt.Sprintf("<:%s:%d>", t.Name, t.ID)
	}
	return t.Emoji
}

// Scanner walks message text left to right and yields emoji tokens in
// the order they appear, in the manner of bufio.Scanner:
//
//	s := emoji.NewScanner(catalog, text)
//	for s.Scan() {
//		token := s.Token()
//	}
//
// At each position a custom reference wins over a unicode emoji, and
// the longest cataloged emoji wins over shorter ones starting at the
// same place. Text that is neither is skipped one codepoint at a time.
type Scanner struct {
	catalog *Catalog
	rest    string
	token   Token
}

// NewScanner never fails, empty text and an empty catalog are both
// fine.
func NewScanner(catalog *Catalog, text string) *Scanner {
	return &Scanner{
		catalog: catalog,
		rest:    text,
	}
}

// Scan advances to the next token and reports whether there is one.
func (s *Scanner) Scan() bool {
	for len(s.rest) > 0 {
		// Custom references always start with "<:", no need to run
		// the regexp on everything else.
		if len(s.rest) >= 2 && s.rest[0] == '<' && s.rest[1] == ':' {
			if match := customEmojiRegex.FindStringSubmatch(s.rest); match != nil {
				if id, err := snowflake.FromString(match[2]); err == nil {
					s.token = Token{Kind: TokenCustom, Name: match[1], ID: id}
					s.rest = s.rest[len(match[0]):]
					return true
				}
				// An id too large for a snowflake is not a reference,
				// the tag scans like any other text.
			}
		}

		if found, ok := s.catalog.longestPrefix(s.rest); ok {
			s.token = Token{Kind: TokenUnicode, Emoji: found}
			s.rest = s.rest[len(found):]
			return true
		}

		// One codepoint, never one byte. Invalid bytes decode as
		// RuneError with size 1, so progress is still guaranteed.
		_, size := utf8.DecodeRuneInString(s.rest)
		s.rest = s.rest[size:]
	}

	return false
}

// Token returns the token found by the last call to Scan.
func (s *Scanner) Token() Token {
	return s.token
}

// Extract scans text to completion and returns every token found.
func Extract(catalog *Catalog, text string) []Token {
	tokens := []Token{}
	scanner := NewScanner(catalog, text)
	for scanner.Scan() {
		tokens = append(tokens, scanner.Token())
	}
	return tokens
}
