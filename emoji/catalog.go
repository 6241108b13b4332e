// Package emoji finds emoji in message text. The catalog of unicode
// emoji is built from a twemoji style asset directory, custom emoji
// are recognized by their <:name:id> reference syntax.
package emoji

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	. "parrot/common"
)

// Asset files are named after the codepoints of the emoji they draw,
// like "1f3f3-fe0f-200d-1f308.svg". Anything else in the directory is
// not an emoji asset.
var assetNameRegex = regexp.MustCompile(`^([0-9a-f]{1,6}(?:-[0-9a-f]{1,6})*)\.svg$`)

// ValidAssetName reports whether name is a well formed asset file name.
func ValidAssetName(name string) bool {
	return assetNameRegex.MatchString(name)
}

// FilenameError is a directory entry whose name is not valid UTF-8.
// Name carries the raw bytes for reporting.
type FilenameError struct {
	Name string
}

func (e *FilenameError) Error() string {
	return fmt.Sprintf("failed to decode asset filename: %q", e.Name)
}

type trieNode struct {
	next map[rune]*trieNode
	leaf bool
}

// Catalog is an immutable set of unicode emoji. Lookup by prefix runs
// on a codepoint trie, so the cost of a scan does not grow with the
// catalog.
type Catalog struct {
	entries map[string]struct{}
	root    *trieNode
	maxLen  int
}

// BuildCatalog reads an asset directory, non-recursively, and collects
// the distinct emoji its file names decode to. The result only depends
// on the set of names, never on enumeration order.
func BuildCatalog(dir string) (*Catalog, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, NewError(ErrorCodeIo, fmt.Errorf("failed to read asset directory: %w", err))
	}

	catalog := &Catalog{
		entries: make(map[string]struct{}),
		root:    &trieNode{},
	}

	for _, file := range files {
		name := file.Name()

		if !utf8.ValidString(name) {
			return nil, &FilenameError{Name: name}
		}

		match := assetNameRegex.FindStringSubmatch(name)
		if match == nil {
			continue
		}

		// An entry that lost all of its groups would be the empty
		// string, which prefixes everything and would stall the
		// scanner. It contributes nothing instead.
		if entry := decodeAssetName(match[1]); entry != "" {
			catalog.insert(entry)
		}
	}

	return catalog, nil
}

// decodeAssetName turns a dash separated codepoint sequence like
// "1f3f3-fe0f-200d-1f308" into the emoji it names. Groups that do not
// denote a valid Unicode scalar are dropped.
func decodeAssetName(name string) string {
	var decoded strings.Builder
	for _, group := range strings.Split(name, "-") {
		value, err := strconv.ParseUint(group, 16, 32)
		if err != nil || !utf8.ValidRune(rune(value)) {
			continue
		}
		decoded.WriteRune(rune(value))
	}
	return decoded.String()
}

func (c *Catalog) insert(entry string) {
	if _, exists := c.entries[entry]; exists {
		return
	}
	c.entries[entry] = struct{}{}

	node := c.root
	length := 0
	for _, r := range entry {
		if node.next == nil {
			node.next = make(map[rune]*trieNode)
		}
		child := node.next[r]
		if child == nil {
			child = &trieNode{}
			node.next[r] = child
		}
		node = child
		length++
	}
	node.leaf = true

	if length > c.maxLen {
		c.maxLen = length
	}
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

func (c *Catalog) Contains(entry string) bool {
	_, exists := c.entries[entry]
	return exists
}

// Entries returns the catalog sorted, the same set always yields the
// same slice.
func (c *Catalog) Entries() []string {
	entries := make([]string, 0, len(c.entries))
	for entry := range c.entries {
		entries = append(entries, entry)
	}
	sort.Strings(entries)
	return entries
}

// MaxLen is the length of the longest entry in codepoints. It bounds
// how far a prefix lookup can walk.
func (c *Catalog) MaxLen() int {
	return c.maxLen
}

// longestPrefix returns the longest entry that prefixes text, longest
// measured in codepoints. Entries are deduplicated so there is never a
// tie to break.
func (c *Catalog) longestPrefix(text string) (string, bool) {
	node := c.root
	end := -1
	for i, r := range text {
		node = node.next[r]
		if node == nil {
			break
		}
		if node.leaf {
			end = i + utf8.RuneLen(r)
		}
	}

	if end < 0 {
		return "", false
	}
	return text[:end], true
}

// AssetName renders an emoji as the file name its asset would carry.
// The variation selector is kept only in joined sequences, matching
// how the asset sets name their files.
func AssetName(emoji string) string {
	const vs16 = rune(0xFE0F)
	const zwj = rune(0x200D)

	hasZWJ := strings.ContainsRune(emoji, zwj)

	var parts []string
	for _, r := range emoji {
		if !hasZWJ && r == vs16 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%x", r))
	}

	return strings.Join(parts, "-") + ".svg"
}
