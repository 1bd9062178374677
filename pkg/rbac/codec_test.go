package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSentinel(t *testing.T) {
	// PermAll always collapses to the single zero byte, regardless of
	// whatever else is in the set at encode time.
	assert.Equal(t, []byte{0x00}, Encode([]Permission{PermAll}))
	assert.Equal(t, []byte{0x00}, Encode(nil))
	assert.Equal(t, []byte{0x00}, Encode([]Permission{}))
}

func TestEncodeMinimalBigEndian(t *testing.T) {
	tests := []struct {
		name  string
		perms []Permission
		want  []byte
	}{
		{
			name:  "single low bit",
			perms: []Permission{PermCreateIncident},
			want:  []byte{0x02},
		},
		{
			name:  "four low bits pack into one byte",
			perms: []Permission{PermCreateIncident, PermViewIncident, PermUpdateIncident, PermViewAuditTrail},
			want:  []byte{0x96}, // bits 1,2,4,7
		},
		{
			name:  "bit eight spills into second byte",
			perms: []Permission{PermViewAllAuditTrail},
			want:  []byte{0x01, 0x00},
		},
		{
			name:  "mixed high and low bits",
			perms: []Permission{PermCreateIncident, PermViewComment},
			want:  []byte{0x04, 0x02}, // bits 1 and 10
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.perms))
		})
	}
}

func TestMaskRoundTrip(t *testing.T) {
	// decode(encode(m)) == m for every representable non-zero mask shape.
	masks := []uint64{
		1, 2, 0x96, 0xFF, 0x100, 0x1FF, 0xDEAD, 0xDEADBEEF,
		1 << 32, 1<<63 | 1, ^uint64(0),
	}
	for _, m := range masks {
		assert.Equal(t, m, Decode(EncodeMask(m)), "mask %#x", m)
	}
}

func TestBlobRoundTrip(t *testing.T) {
	// encode(decode(b)) == b for valid blobs without leading zeros.
	blobs := [][]byte{
		{0x00},
		{0x01},
		{0x96},
		{0x01, 0x00},
		{0xDE, 0xAD, 0xBE, 0xEF},
	}
	for _, b := range blobs {
		assert.Equal(t, b, EncodeMask(Decode(b)))
	}
}

func TestDecodeEmpty(t *testing.T) {
	assert.Equal(t, uint64(0), Decode(nil))
	assert.Equal(t, uint64(0), Decode([]byte{}))
	assert.Equal(t, uint64(0), Decode([]byte{0x00}))
	assert.Equal(t, uint64(0), Decode([]byte{0x00, 0x00}))
}

func TestHasPermissionSentinel(t *testing.T) {
	// The zero blob grants every defined permission.
	for p := PermAll; p < permCount; p++ {
		assert.True(t, HasPermission([]byte{0x00}, p), "permission %s", p)
	}
	// So does an empty blob: the documented empty-set collision.
	assert.True(t, HasPermission(nil, PermDeleteIncident))
}

func TestHasPermissionMask(t *testing.T) {
	blob := Encode(PermissionsForRole(RoleUser))

	assert.True(t, HasPermission(blob, PermCreateIncident))
	assert.True(t, HasPermission(blob, PermViewIncident))
	assert.True(t, HasPermission(blob, PermUpdateIncident))
	assert.True(t, HasPermission(blob, PermViewAuditTrail))

	assert.False(t, HasPermission(blob, PermDeleteIncident))
	assert.False(t, HasPermission(blob, PermViewAllIncident))
	assert.False(t, HasPermission(blob, PermViewAllAuditTrail))
}

func TestRequire(t *testing.T) {
	blob := Encode(PermissionsForRole(RoleUser))

	require.NoError(t, Require(blob, PermCreateIncident))
	assert.ErrorIs(t, Require(blob, PermDeleteIncident), ErrPermissionDenied)
}
