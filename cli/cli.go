// Package cli provides the command-line interface of VPN Panel.
// Running the binary without a subcommand opens the interactive panel;
// every panel action is also available as a subcommand for scripting.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yllada/vpn-panel/common"
	"github.com/yllada/vpn-panel/vpn"
)

// CLI runs panel actions and prints their results.
type CLI struct {
	ctrl    *vpn.Controller
	catalog *vpn.Catalog
	out     io.Writer
}

// New creates a new CLI instance.
func New(ctrl *vpn.Controller, out io.Writer) *CLI {
	return &CLI{
		ctrl:    ctrl,
		catalog: ctrl.Catalog(),
		out:     out,
	}
}

// ListCountries prints the country catalog.
func (c *CLI) ListCountries() error {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COUNTRY\tCODE")
	fmt.Fprintln(w, "-------\t----")

	for _, name := range c.catalog.Names() {
		code, _ := c.catalog.Code(name)
		fmt.Fprintf(w, "%s\t%s\n", name, code)
	}

	return w.Flush()
}

// Connect connects to a country given by name or code (case-insensitive)
// and prints the verified public identity. A failed verification is only
// a warning: the connection is up.
func (c *CLI) Connect(ctx context.Context, nameOrCode string) error {
	name, ok := c.findCountry(nameOrCode)
	if !ok {
		return &common.UnknownCountryError{Name: nameOrCode}
	}
	code, _ := c.catalog.Code(name)

	fmt.Fprintf(c.out, "Connecting to %s...\n", name)

	identity, err := c.ctrl.Connect(ctx, name)

	var verr *common.VerificationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(c.out, "✓ Connected to %s\n", name)
		fmt.Fprintf(c.out, "  Warning: public identity not verified: %v\n", verr.Err)
		return nil
	case interrupted(ctx, err):
		fmt.Fprintln(c.out, "Interrupted.")
		return nil
	case err != nil:
		return fmt.Errorf("connection failed: %w", err)
	}

	fmt.Fprintf(c.out, "✓ Connected to %s\n", name)
	return c.printIdentity(identity, code)
}

// Disconnect stops the VPN session. Without confirmation nothing is run.
func (c *CLI) Disconnect(ctx context.Context, confirmed bool) error {
	if confirmed {
		fmt.Fprintln(c.out, "Disabling VPN connection...")
	}

	err := c.ctrl.Disconnect(ctx, confirmed)
	switch {
	case errors.Is(err, common.ErrCancelled):
		fmt.Fprintln(c.out, "Cancelled.")
		return nil
	case interrupted(ctx, err):
		fmt.Fprintln(c.out, "Interrupted.")
		return nil
	case err != nil:
		return fmt.Errorf("failed to disconnect: %w", err)
	}

	fmt.Fprintln(c.out, "✓ Your VPN connection has been stopped.")
	return nil
}

// IPInfo prints the current public identity.
func (c *CLI) IPInfo(ctx context.Context) error {
	identity, err := c.ctrl.QueryIdentity(ctx)
	if err != nil {
		return fmt.Errorf("IP lookup failed: %w", err)
	}
	return c.printIdentity(identity, "")
}

// Auth prints the saved VPN account.
func (c *CLI) Auth(ctx context.Context) error {
	creds, err := c.ctrl.QueryCredentials(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "User:\t%s\n", creds.Username)
	fmt.Fprintf(w, "Source:\t%s\n", creds.Source)
	return w.Flush()
}

func (c *CLI) printIdentity(id common.Identity, requested string) error {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "IP Address:\t%s\n", id.IP)
	fmt.Fprintf(w, "Country:\t%s\n", id.Country)
	fmt.Fprintf(w, "Region:\t%s\n", id.Region)
	if id.City != "" {
		fmt.Fprintf(w, "City:\t%s\n", id.City)
	}
	fmt.Fprintf(w, "ISP:\t%s\n", id.ISP)
	if err := w.Flush(); err != nil {
		return err
	}

	if requested != "" && id.CountryCode != "" && id.CountryCode != requested {
		fmt.Fprintf(c.out, "  Warning: exit country is %s, requested %s\n", id.CountryCode, requested)
	}
	return nil
}

// findCountry finds a catalog name by name or code (case-insensitive).
func (c *CLI) findCountry(nameOrCode string) (string, bool) {
	query := strings.ToLower(strings.TrimSpace(nameOrCode))
	if query == "" {
		return "", false
	}

	for _, name := range c.catalog.Names() {
		code, _ := c.catalog.Code(name)
		if strings.ToLower(name) == query || strings.ToLower(code) == query {
			return name, true
		}
	}

	return "", false
}

// interrupted reports whether err is the result of ctx being cancelled.
func interrupted(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled)
}
