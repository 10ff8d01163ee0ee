// Package credentials reads the VPN account saved by the client.
//
// The panel only displays the account; it never writes or caches it.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/yllada/vpn-panel/common"
)

// FileStore reads the username from the client's INI account file in the
// home directory of the requested user.
type FileStore struct {
	// RelPath is the account file, relative to the user's home directory.
	// An absolute path is used as is.
	RelPath string
	Section string
	Key     string

	// homeDir resolves a user's home; tests replace it.
	homeDir func(user string) string
}

// NewFileStore returns a store with the given location. Empty values fall
// back to the client's defaults.
func NewFileStore(relPath, section, key string) *FileStore {
	if relPath == "" {
		relPath = common.DefaultCredentialsPath
	}
	if section == "" {
		section = common.DefaultCredentialsSection
	}
	if key == "" {
		key = common.DefaultCredentialsKey
	}
	return &FileStore{
		RelPath: relPath,
		Section: section,
		Key:     key,
		homeDir: common.HomeDirFor,
	}
}

// Path returns the account file location for user.
func (s *FileStore) Path(user string) string {
	if filepath.IsAbs(s.RelPath) {
		return s.RelPath
	}
	home := common.HomeDirFor
	if s.homeDir != nil {
		home = s.homeDir
	}
	return filepath.Join(home(user), s.RelPath)
}

// Load reads the account of forUser.
func (s *FileStore) Load(ctx context.Context, forUser string) (common.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return common.Credentials{}, err
	}

	path := s.Path(forUser)

	data, err := os.ReadFile(path)
	if err != nil {
		kind := common.CredentialUnavailable
		if errors.Is(err, fs.ErrNotExist) {
			kind = common.CredentialFileNotFound
		}
		return common.Credentials{}, &common.CredentialError{Kind: kind, Path: path, Err: err}
	}

	file, err := ini.Load(data)
	if err != nil {
		return common.Credentials{}, &common.CredentialError{Kind: common.CredentialMalformed, Path: path, Err: err}
	}

	section, err := file.GetSection(s.Section)
	if err != nil {
		return common.Credentials{}, &common.CredentialError{
			Kind: common.CredentialMissingField,
			Path: path,
			Err:  fmt.Errorf("section [%s] not found", s.Section),
		}
	}

	if !section.HasKey(s.Key) {
		return common.Credentials{}, &common.CredentialError{
			Kind: common.CredentialMissingField,
			Path: path,
			Err:  fmt.Errorf("key %q not found in [%s]", s.Key, s.Section),
		}
	}

	username := strings.TrimSpace(section.Key(s.Key).String())
	if username == "" {
		return common.Credentials{}, &common.CredentialError{
			Kind: common.CredentialMissingField,
			Path: path,
			Err:  fmt.Errorf("key %q is empty", s.Key),
		}
	}

	return common.Credentials{Username: username, Source: path}, nil
}
