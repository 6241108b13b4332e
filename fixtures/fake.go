package fixtures

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/icrowley/fake"

	. "parrot/common"
	"parrot/common/snowflake"
)

// Well formed enough for a content sniffer to call it image/svg+xml.
const svgStub = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 36 36"></svg>`

// StockAssets names a small asset set with the emoji each file decodes
// to. The flag sequence keeps multi codepoint matching exercised.
var StockAssets = map[string]string{
	"1f44d.svg":                 "\U0001F44D",
	"1f600.svg":                 "\U0001F600",
	"1f914.svg":                 "\U0001F914",
	"2764-fe0f.svg":             "❤️",
	"1f3f3-fe0f-200d-1f308.svg": "\U0001F3F3️‍\U0001F308",
}

func StockNames() []string {
	names := make([]string, 0, len(StockAssets))
	for name := range StockAssets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func StockEmojis() []string {
	emojis := make([]string, 0, len(StockAssets))
	for _, emoji := range StockAssets {
		emojis = append(emojis, emoji)
	}
	sort.Strings(emojis)
	return emojis
}

// WriteAssetDir fills dir with stub SVG assets, one per name.
func WriteAssetDir(dir string, names []string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(svgStub), 0644); err != nil {
			return err
		}
	}
	return nil
}

// FakeMember generates a plausible profile. Pass a seeded rng for
// reproducible fixtures.
func FakeMember(rng *rand.Rand) Member {
	member := Member{
		Bot:           rng.Intn(20) == 0,
		Discriminator: rng.Intn(9999) + 1,
		Joined:        time.Now().Add(-time.Duration(rng.Intn(100000)) * time.Minute).UTC(),
		ID:            snowflake.New(),
		Roles:         []Snowflake{},
		Username:      fake.UserName(),
	}

	if rng.Intn(3) == 0 {
		member.Nick = fake.FirstName()
	}

	for i := rng.Intn(4); i > 0; i-- {
		member.Roles = append(member.Roles, snowflake.New())
	}

	return member
}

// FakeMessage generates chat text with a few emoji from the stock mixed
// in at random positions, and reports how many it planted.
func FakeMessage(rng *rand.Rand, emojis []string) (string, int) {
	words := strings.Fields(fake.Sentence())

	count := 0
	if len(emojis) > 0 {
		count = rng.Intn(4)
	}
	for i := 0; i < count; i++ {
		at := rng.Intn(len(words) + 1)
		words = append(words[:at], append([]string{emojis[rng.Intn(len(emojis))]}, words[at:]...)...)
	}

	return strings.Join(words, " "), count
}
