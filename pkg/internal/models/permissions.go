package models

// Permission is the rank a user holds on the board. The levels form a total
// order: Banned < Unverified < User < Admin < Root.
type Permission string

const (
	PermissionBanned     = Permission("Banned")
	PermissionUnverified = Permission("Unverified")
	PermissionUser       = Permission("User")
	PermissionAdmin      = Permission("Admin")
	PermissionRoot       = Permission("Root")
)

// PermissionForAttachmentUpload gates uploading attachments.
const PermissionForAttachmentUpload = PermissionUser

// PermissionForImportantActions gates category management, permission grants
// and cross-user moderation.
const PermissionForImportantActions = PermissionAdmin

// DefaultPermission is what an actor without a resolvable account holds.
const DefaultPermission = PermissionUnverified

// IsAllowed reports whether the held permission satisfies the required one.
// Every pair is enumerated on purpose: adding a level without extending this
// table must be an obvious, reviewable change rather than an implicit
// comparison that silently ranks the newcomer.
func IsAllowed(held Permission, required Permission) bool {
	switch held {
	case PermissionBanned:
		switch required {
		case PermissionBanned:
			return true
		case PermissionUnverified, PermissionUser, PermissionAdmin, PermissionRoot:
			return false
		}
	case PermissionUnverified:
		switch required {
		case PermissionUnverified:
			return true
		case PermissionBanned, PermissionUser, PermissionAdmin, PermissionRoot:
			return false
		}
	case PermissionUser:
		switch required {
		case PermissionUnverified, PermissionUser:
			return true
		case PermissionBanned, PermissionAdmin, PermissionRoot:
			return false
		}
	case PermissionAdmin:
		switch required {
		case PermissionUnverified, PermissionUser, PermissionAdmin:
			return true
		case PermissionBanned, PermissionRoot:
			return false
		}
	case PermissionRoot:
		switch required {
		case PermissionUnverified, PermissionUser, PermissionAdmin, PermissionRoot:
			return true
		case PermissionBanned:
			return false
		}
	}
	return false
}

// ParsePermission validates a permission level supplied by a caller.
func ParsePermission(raw string) (Permission, error) {
	switch p := Permission(raw); p {
	case PermissionBanned, PermissionUnverified, PermissionUser, PermissionAdmin, PermissionRoot:
		return p, nil
	}
	return "", &FieldError{Field: "permission", Reason: "unknown permission level"}
}

func (p Permission) String() string {
	return string(p)
}
