package contract

import (
	"fmt"
	"strings"
)

// Role is a closed enumeration of the contract's access-control roles, plus
// a pass-through variant for identifiers that were computed elsewhere. The
// canonical identifiers live in the contract itself as hash constants; named
// roles are resolved with an on-chain lookup, never hard-coded client-side.
type Role struct {
	name string // "MINTER", "PAUSER", "ADMIN"; empty for raw
	raw  string // 0x-prefixed 32-byte hex identifier for raw roles
}

// roleGetters maps each named role to its on-chain getter function.
var roleGetters = map[string]string{
	"MINTER": "MINTER_ROLE",
	"PAUSER": "PAUSER_ROLE",
	"ADMIN":  "DEFAULT_ADMIN_ROLE",
}

// ParseRole maps a CLI role argument to a Role. MINTER, PAUSER, and ADMIN
// (case-insensitive) are the named roles; anything else is treated as an
// already-computed identifier and passed through verbatim.
func ParseRole(s string) Role {
	upper := strings.ToUpper(s)
	if _, ok := roleGetters[upper]; ok {
		return Role{name: upper}
	}
	return Role{raw: s}
}

// IsNamed reports whether the role is one of the known named roles.
func (r Role) IsNamed() bool { return r.name != "" }

// String returns the role name, or the raw identifier for pass-through roles.
func (r Role) String() string {
	if r.name != "" {
		return r.name
	}
	return r.raw
}

// Resolve returns the 32-byte role identifier as 0x-prefixed hex. Named
// roles are looked up on the contract; raw roles are returned as given.
func (r Role) Resolve(caller *Caller, tokenAddr string) (string, error) {
	if r.name == "" {
		return r.raw, nil
	}

	getter := roleGetters[r.name]
	id, err := caller.CallOne(tokenAddr, getter)
	if err != nil {
		return "", fmt.Errorf("resolving role %s via %s(): %w", r.name, getter, err)
	}
	return id, nil
}
