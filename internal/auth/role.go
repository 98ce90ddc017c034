// Package auth implements the tenant-hierarchy authorization core: the
// bearer-token codec, the role resolver and the access guard.
//
// A caller's authority is recomputed from its verified token claims on every
// request. Nothing here holds mutable state beyond the signing secret loaded
// at startup, so the package is safe for unrestricted concurrent use.
package auth

import (
	"fmt"

	"github.com/MKhiriev/bsdr/models"
)

// Role is the explicit tag of a resolved caller's tier. It is derived
// structurally from the claims triple and never stored, which rules out
// stale-authorization bugs by construction.
type Role int

const (
	// RoleOperator is the platform-wide super-tenant (sentinel triple 0/0/0,
	// never a stored row).
	RoleOperator Role = iota

	// RoleAgency is the partner tier owning zero or more vendors.
	RoleAgency

	// RoleVendor is the organization tier owning zero or more individuals.
	RoleVendor

	// RoleIndividual is the leaf participant tier.
	RoleIndividual
)

// String implements [fmt.Stringer] for log and error output.
func (r Role) String() string {
	switch r {
	case RoleOperator:
		return "operator"
	case RoleAgency:
		return "agency"
	case RoleVendor:
		return "vendor"
	case RoleIndividual:
		return "individual"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Partition is the normalized data-visibility scope of a caller. A zero
// field means the caller is not bounded at that level (the operator is not
// bounded at all, an agency is bounded only by ApxID).
//
// The scope is derived from the caller's own identity — an agency's ApxID is
// its own user id, a vendor's VdrID is its own user id. This identity-as-
// partition-key rule is the isolation mechanism: every storage query must
// apply the scope as a filter predicate before touching tenant data.
type Partition struct {
	ApxID int64
	VdrID int64
}

// Caller is the resolved identity of a request: the tagged role plus the
// effective partition, derived exactly once from verified claims and
// read-only afterwards.
type Caller struct {
	// Role is the derived tier tag.
	Role Role

	// Scope is the effective partition all reads and writes are bounded by.
	Scope Partition

	// UsrID is the literal subject id from the token (0 for the operator).
	UsrID int64

	// StaffID mirrors UsrID when the token carries staff delegation,
	// 0 otherwise. Kept for audit: a staff caller acts as its owning
	// vendor, but StaffID records who actually acted.
	StaffID int64

	// Email and Type are carried through from the claims for convenience.
	Email string
	Type  models.UserType
}

// Resolve derives the caller from verified claims.
//
// Exactly one of the four triple patterns must match:
//
//	operator:   apx == 0 && vdr == 0 && usr == 0
//	agency:     apx == 0 && vdr == 0 && usr > 0
//	vendor:     apx > 0  && vdr == 0 && usr > 0
//	individual: apx > 0  && vdr > 0  && usr > 0
//
// Any other shape is an internal-consistency fault — it cannot occur if
// token issuance is correct — and resolution fails with
// [ErrInconsistentTriple] instead of silently defaulting.
//
// Staff delegation: an individual token with IsStaff set resolves as its
// owning vendor for all authorization and partition purposes, with the
// literal individual id preserved in StaffID. The delegation is fixed for
// the token's lifetime; the stored staff flag is not consulted here.
func Resolve(c models.Claims) (Caller, error) {
	if c.ApxID < 0 || c.VdrID < 0 || c.UsrID < 0 {
		return Caller{}, fmt.Errorf("%w: (%d, %d, %d)", ErrInconsistentTriple, c.ApxID, c.VdrID, c.UsrID)
	}

	caller := Caller{
		UsrID: c.UsrID,
		Email: c.Email,
		Type:  c.Type,
	}

	switch {
	case c.ApxID == 0 && c.VdrID == 0 && c.UsrID == 0:
		caller.Role = RoleOperator
		caller.Scope = Partition{}

	case c.ApxID == 0 && c.VdrID == 0:
		caller.Role = RoleAgency
		caller.Scope = Partition{ApxID: c.UsrID}

	case c.VdrID == 0:
		caller.Role = RoleVendor
		caller.Scope = Partition{ApxID: c.ApxID, VdrID: c.UsrID}

	default:
		if c.IsStaff {
			// Staff acts as the owning vendor; the individual id is
			// retained for audit only.
			caller.Role = RoleVendor
			caller.Scope = Partition{ApxID: c.ApxID, VdrID: c.VdrID}
			caller.StaffID = c.UsrID
		} else {
			caller.Role = RoleIndividual
			caller.Scope = Partition{ApxID: c.ApxID, VdrID: c.VdrID}
		}
	}

	return caller, nil
}
