// Package keyring reads the VPN account from the system keyring.
// It is the alternative to the client's INI account file and, like it,
// is read-only.
//
// The Secret Service backend lives on the invoking user's session bus,
// which a process started with sudo usually cannot reach. Load then fails
// with CredentialUnavailable; the panel pairs this reader with the account
// file through credentials.FallbackReader.
package keyring

import (
	"context"
	"errors"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/yllada/vpn-panel/common"
)

// Reader looks up the account username stored under Service for a local user.
type Reader struct {
	Service string
}

// NewReader returns a reader for service, or the default service when empty.
func NewReader(service string) *Reader {
	if service == "" {
		service = common.DefaultKeyringService
	}
	return &Reader{Service: service}
}

// Source describes where the credentials come from.
func (r *Reader) Source() string {
	return "keyring:" + r.Service
}

// Load returns the account stored for forUser.
func (r *Reader) Load(ctx context.Context, forUser string) (common.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return common.Credentials{}, err
	}

	secret, err := keyring.Get(r.Service, forUser)
	if err != nil {
		kind := common.CredentialUnavailable
		if errors.Is(err, keyring.ErrNotFound) {
			kind = common.CredentialMissingField
		}
		return common.Credentials{}, &common.CredentialError{Kind: kind, Path: r.Source(), Err: err}
	}

	username := strings.TrimSpace(secret)
	if username == "" {
		return common.Credentials{}, &common.CredentialError{
			Kind: common.CredentialMissingField,
			Path: r.Source(),
			Err:  errors.New("stored username is empty"),
		}
	}

	return common.Credentials{Username: username, Source: r.Source()}, nil
}
