package domain

import "context"

// FallbackHostname is reported whenever the local machine name cannot be resolved.
const FallbackHostname = "Taskmaster-Node-Unknown"

// Hostname is the result of a local hostname lookup.
// Fallback is set when Name is FallbackHostname because the lookup failed.
type Hostname struct {
	Name     string
	Fallback bool
}

// ResolvedHostname wraps a successfully resolved name.
func ResolvedHostname(name string) Hostname {
	return Hostname{Name: name}
}

// UnknownHostname is the fallback result.
func UnknownHostname() Hostname {
	return Hostname{Name: FallbackHostname, Fallback: true}
}

// HostnameResolver looks up the local machine's network name.
// Implementations never fail; lookup errors are mapped to UnknownHostname.
type HostnameResolver interface {
	Resolve(ctx context.Context) Hostname
}
