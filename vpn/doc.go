// Package vpn provides VPN connection management functionality for VPN Panel.
//
// The panel does not implement a tunnel. It drives an installed VPN client
// executable and confirms the result through an IP-geolocation lookup.
//
// # Architecture
//
// The package is organized around four types:
//
//   - Catalog: Immutable country name → code mapping offered to the user
//   - ConnectionState: Snapshot of the connection (status, country, failure reason)
//   - ExecRunner: Launches the client binary and captures its output
//   - Controller: Owns the state and sequences every command
//
// # Connection Flow
//
// A typical connection flow:
//
//  1. User selects a country in the UI
//  2. UI calls Controller.Connect() with the country name
//  3. Controller enters Connecting and runs "<client> --connect --country-code CC"
//  4. On exit code 0 it enters Connected and queries the public identity
//  5. UI receives state transitions through Subscribe and the identity as the result
//
// A failed client invocation moves the controller to Failed. Failed is not
// sticky: the next Connect or Disconnect is processed normally, and
// Acknowledge returns it to Disconnected once the user has seen the error.
//
// # Thread Safety
//
// Controller is safe for concurrent use. Connecting and Disconnecting act
// as guard states: while one of them is current, further Connect and
// Disconnect calls fail with ErrAlreadyInProgress.
package vpn
