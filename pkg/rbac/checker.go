package rbac

import "errors"

// ErrPermissionDenied is returned by services when an authenticated caller
// lacks the permission required for an operation. The API layer maps it to
// 403; it is distinct from an authentication failure.
var ErrPermissionDenied = errors.New("permission denied")

// HasPermission reports whether the encoded blob grants the required
// permission. A blob decoding to zero is the sentinel and grants
// everything. Pure function, safe for concurrent use.
func HasPermission(blob []byte, required Permission) bool {
	mask := Decode(blob)
	if mask == 0 {
		return true
	}
	return mask&(1<<uint(required)) != 0
}

// Require returns ErrPermissionDenied unless the blob grants the required
// permission. Convenience for service-layer guards:
//
//	if err := rbac.Require(blob, rbac.PermDeleteIncident); err != nil {
//	    return err
//	}
func Require(blob []byte, required Permission) error {
	if !HasPermission(blob, required) {
		return ErrPermissionDenied
	}
	return nil
}
