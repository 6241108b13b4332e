package emoji

import (
	"errors"
	"regexp"

	"parrot/common/snowflake"
)

// Custom emoji references look like <:lrrJUDGE:289173939802996736>, a
// name of word characters and the numeric id of the uploaded emoji.
// The scanner and ParseCustom share this grammar so they cannot drift.
const customEmojiPattern = `<:([0-9A-Za-z_]{2,}):([0-9]+)>`

var (
	customEmojiRegex      = regexp.MustCompile(`^` + customEmojiPattern)
	customEmojiExactRegex = regexp.MustCompile(`^` + customEmojiPattern + `$`)
)

var (
	// ErrNotCustomEmoji means the text is not a custom emoji reference.
	ErrNotCustomEmoji = errors.New("not a custom emoji reference")

	// ErrCustomEmojiID means the reference is well formed but its id
	// does not fit a snowflake.
	ErrCustomEmojiID = errors.New("custom emoji id out of range")
)

// ParseCustom parses text that is exactly one custom emoji reference,
// nothing before it and nothing after it. Any other input fails with
// ErrNotCustomEmoji; a reference whose id overflows fails with
// ErrCustomEmojiID.
func ParseCustom(text string) (Token, error) {
	match := customEmojiExactRegex.FindStringSubmatch(text)
	if match == nil {
		return Token{}, ErrNotCustomEmoji
	}

	id, err := snowflake.FromString(match[2])
	if err != nil {
		return Token{}, ErrCustomEmojiID
	}

	return Token{Kind: TokenCustom, Name: match[1], ID: id}, nil
}
