package rbac

// Sentinel is the encoded form of "all permissions granted".
var Sentinel = []byte{0x00}

// Encode packs a permission set into its stored blob form.
//
// A set containing PermAll encodes as the single sentinel byte. Otherwise
// the set is OR-ed into a bitmask and serialized as the minimal big-endian
// byte string (no leading zero bytes). An empty set also yields the
// sentinel byte; see the package doc for why that collision is preserved.
func Encode(perms []Permission) []byte {
	var mask uint64
	for _, p := range perms {
		if p == PermAll {
			return Sentinel
		}
		mask |= 1 << uint(p)
	}
	return EncodeMask(mask)
}

// EncodeMask serializes a raw bitmask as minimal big-endian bytes. A zero
// mask yields the sentinel byte.
func EncodeMask(mask uint64) []byte {
	if mask == 0 {
		return Sentinel
	}
	// Minimal representation: strip leading zero bytes.
	buf := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(mask)
		mask >>= 8
	}
	start := 0
	for start < 7 && buf[start] == 0 {
		start++
	}
	return buf[start:]
}

// Decode interprets a blob as a big-endian unsigned bitmask. Empty or
// all-zero input decodes to 0, which every check treats as the sentinel.
// Bytes beyond the low 8 are ignored; the registry caps ids at 63 so a
// well-formed blob never exceeds 8 bytes.
func Decode(blob []byte) uint64 {
	var mask uint64
	if len(blob) > 8 {
		blob = blob[len(blob)-8:]
	}
	for _, b := range blob {
		mask = mask<<8 | uint64(b)
	}
	return mask
}
