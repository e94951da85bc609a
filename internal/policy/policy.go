// Package policy holds the role-change authorization rules. It is kept free
// of framework and storage dependencies so the decision table can be unit
// tested in isolation.
package policy

import "makeapi/auth/internal/domain"

// CanChangeRole decides whether a requester may assign newRole to the target
// user. The caller is responsible for loading the target beforehand and
// passing its current role; a missing target is a NotFound condition handled
// upstream.
//
// Preconditions are checked first, then the requester is classified into
// exactly one tier, highest first:
//
//   - admin (>= 4): may assign any role strictly below admin
//   - operator (== 3): may act only below its own tier, on targets below its
//     own tier
//   - anything else: no role-change capability at all
func CanChangeRole(requesterRole domain.Role, requesterID, targetID int64, targetRole, newRole domain.Role) error {
	if !newRole.Valid() {
		return domain.ErrInvalidRole
	}

	if targetID == requesterID {
		return domain.ErrOwnRoleChange
	}

	switch {
	case requesterRole >= domain.RoleAdmin:
		if newRole >= domain.RoleAdmin {
			return domain.ErrRoleNotAllowed
		}
	case requesterRole == domain.RoleOperator:
		if newRole >= domain.RoleOperator || targetRole >= domain.RoleOperator {
			return domain.ErrRoleNotAllowed
		}
	default:
		return domain.ErrRoleNotAllowed
	}

	return nil
}
