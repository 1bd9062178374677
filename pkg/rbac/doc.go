// Package rbac implements the permission model: a closed enumeration of
// permission bits, a static role table, and a compact binary codec for
// permission sets.
//
// # Permission Blobs
//
// A permission set is stored next to each user as a variable-length byte
// slice interpreted as a big-endian unsigned bitmask. Bit i set means the
// permission with id i is granted. A single zero byte is the reserved
// sentinel meaning "all permissions granted":
//
//	blob := rbac.Encode(rbac.PermissionsForRole("User"))
//	if rbac.HasPermission(blob, rbac.PermCreateIncident) {
//	    // allowed
//	}
//
// # Known sharp edge
//
// A genuinely empty permission set and the all-permissions sentinel both
// encode to 0x00, so an empty set is indistinguishable from "grant all" on
// the wire. This matches the stored-blob format this system has always used;
// see Decode for details. Roles are therefore validated at init so that no
// role produces an empty mask by accident.
package rbac
