package emoji

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	. "parrot/common"
)

// AuditReport describes the health of an asset directory. The catalog
// build skips or drops defective entries silently, the audit is where
// those defects become visible.
type AuditReport struct {
	// Entries counts asset files that contribute a catalog entry.
	Entries int `json:"entries"`

	// Ignored names do not match the asset pattern at all.
	Ignored []string `json:"ignored,omitempty"`

	// Undecodable names are not valid UTF-8. These fail the build.
	Undecodable []string `json:"undecodable,omitempty"`

	// BadGroups are pattern matches that lost one or more hex groups
	// to scalar validation.
	BadGroups []string `json:"badGroups,omitempty"`

	// NotSVG are pattern matches whose content is not actually SVG.
	NotSVG []string `json:"notSvg,omitempty"`
}

// AuditAssets inspects the same non-recursive listing the catalog
// build reads, without failing on what it finds.
func AuditAssets(dir string) (*AuditReport, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, NewError(ErrorCodeIo, fmt.Errorf("failed to read asset directory: %w", err))
	}

	report := &AuditReport{}

	for _, file := range files {
		name := file.Name()

		if !utf8.ValidString(name) {
			report.Undecodable = append(report.Undecodable, name)
			continue
		}

		match := assetNameRegex.FindStringSubmatch(name)
		if match == nil {
			report.Ignored = append(report.Ignored, name)
			continue
		}

		if decodeAssetName(match[1]) != "" {
			report.Entries++
		}

		for _, group := range strings.Split(match[1], "-") {
			value, err := strconv.ParseUint(group, 16, 32)
			if err != nil || !utf8.ValidRune(rune(value)) {
				report.BadGroups = append(report.BadGroups, name)
				break
			}
		}

		if file.IsDir() {
			continue
		}

		mime, err := mimetype.DetectFile(filepath.Join(dir, name))
		if err != nil || !mime.Is("image/svg+xml") {
			report.NotSVG = append(report.NotSVG, name)
		}
	}

	return report, nil
}
