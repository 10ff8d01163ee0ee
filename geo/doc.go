// Package geo looks up the public IP address and its location.
//
// The panel uses it to confirm which exit country the VPN client actually
// connected through. Every call is a single HTTP request; results are never
// cached and failed lookups are never retried.
package geo
