package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	. "parrot/common"
)

// ProfilesFolder holds one pretty printed JSON file per member, named
// by snowflake, for an external site to read. Main points this at the
// configured directory before anything runs.
var ProfilesFolder = filepath.Join("data", "profiles")

func GetProfilePath(id Snowflake) string {
	return filepath.Join(ProfilesFolder, strconv.FormatInt(int64(id), 10)+".json")
}

// AddProfile writes the member's profile file. Members without a join
// date never appear in the directory.
func AddProfile(member Member) error {
	if member.Joined.IsZero() {
		return NewError(ErrorCodeMissingJoinDate, fmt.Errorf("member %d has no join date", member.ID))
	}

	// Canonical role order keeps rewrites of the same member diffable.
	member.Roles = slices.Clone(member.Roles)
	slices.Sort(member.Roles)

	data, err := json.MarshalIndent(member, "", "  ")
	if err != nil {
		return NewError(ErrorCodeInternalError, fmt.Errorf("failed to encode profile: %w", err))
	}
	data = append(data, '\n')

	if err := os.WriteFile(GetProfilePath(member.ID), data, 0644); err != nil {
		return NewError(ErrorCodeIo, fmt.Errorf("failed to write profile: %w", err))
	}

	return nil
}

// RemoveProfile deletes the member's profile file. Removal is
// idempotent, a file that is already gone is success.
func RemoveProfile(id Snowflake) error {
	err := os.Remove(GetProfilePath(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return NewError(ErrorCodeIo, fmt.Errorf("failed to remove profile: %w", err))
	}
	return nil
}

// SetProfiles replaces the whole directory with the given member set.
func SetProfiles(members []Member) error {
	existing, err := filepath.Glob(filepath.Join(ProfilesFolder, "*.json"))
	if err != nil {
		return NewError(ErrorCodeIo, fmt.Errorf("failed to list profiles: %w", err))
	}

	for _, path := range existing {
		if err := os.Remove(path); err != nil {
			return NewError(ErrorCodeIo, fmt.Errorf("failed to clear profiles: %w", err))
		}
	}

	for _, member := range members {
		if err := AddProfile(member); err != nil {
			return err
		}
	}

	return nil
}

// UpdateProfile replaces the member's profile file.
func UpdateProfile(member Member) error {
	if err := RemoveProfile(member.ID); err != nil {
		return err
	}
	return AddProfile(member)
}

func GetProfile(id Snowflake) (Member, error) {
	data, err := os.ReadFile(GetProfilePath(id))
	if err != nil {
		return Member{}, NewError(ErrorCodeIo, fmt.Errorf("failed to read profile: %w", err))
	}

	var member Member
	if err := json.Unmarshal(data, &member); err != nil {
		return Member{}, NewError(ErrorCodeInternalError, fmt.Errorf("failed to decode profile: %w", err))
	}

	return member, nil
}
