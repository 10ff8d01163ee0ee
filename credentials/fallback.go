package credentials

import (
	"context"
	"errors"

	"github.com/yllada/vpn-panel/common"
)

// FallbackReader asks Primary first and switches to Secondary when
// Primary's backend cannot be reached. Other errors, such as a missing
// entry, are returned as is.
type FallbackReader struct {
	Primary   common.CredentialReader
	Secondary common.CredentialReader
}

// Load implements common.CredentialReader.
func (f *FallbackReader) Load(ctx context.Context, forUser string) (common.Credentials, error) {
	creds, err := f.Primary.Load(ctx, forUser)

	var cerr *common.CredentialError
	if !errors.As(err, &cerr) || cerr.Kind != common.CredentialUnavailable {
		return creds, err
	}

	common.LogWarn("Credential source %s unavailable, reading the account file instead: %v", cerr.Path, cerr.Err)
	return f.Secondary.Load(ctx, forUser)
}
