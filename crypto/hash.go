package crypto

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"lukechampine.com/blake3"
)

// Hash256 is the 256-bit digest type spec.md §3 calls Hash256: the identity
// of a Project, a CarbonCreditBatch (paired with its project hash), or a
// SaleOrder.
type Hash256 [32]byte

// String renders the digest as a 0x-prefixed hex string.
func (h Hash256) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// DecodeHash256 parses a 0x-prefixed hex string produced by String back
// into a Hash256.
func DecodeHash256(s string) (Hash256, error) {
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Hash256{}, fmt.Errorf("crypto: invalid hash256 hex: %w", err)
	}
	if len(raw) != 32 {
		return Hash256{}, fmt.Errorf("crypto: hash256 must be 32 bytes, got %d", len(raw))
	}
	var h Hash256
	copy(h[:], raw)
	return h, nil
}

// Bytes returns a defensive copy of the digest.
func (h Hash256) Bytes() []byte {
	return append([]byte(nil), h[:]...)
}

// IsZero reports whether the digest is the zero value, used to recognize an
// unset/sentinel hash field.
func (h Hash256) IsZero() bool {
	return h == Hash256{}
}

// Digest implements the injected Hash capability of spec.md §6: a 256-bit
// cryptographic hash of arbitrary bytes. Project, batch, and sale-order
// identifiers are all derived by calling Digest over the canonical
// concatenation of (caller, nonce, moment) described in spec.md §4.3/§4.7,
// using Keccak256. Storage keys are not hashed: core/state builds them from
// a namespace prefix plus the raw identifier bytes.
func Digest(data ...[]byte) Hash256 {
	return Hash256(ethcrypto.Keccak256Hash(data...))
}

// EntityDigest derives the deterministic hash for a project/batch/sale-order
// proposal from the caller's account id, their current nonce, and the
// current moment, per spec.md §4.3 and §4.7.
func EntityDigest(caller AccountId, nonce uint64, momentUnixNano int64) Hash256 {
	var nonceBytes [8]byte
	binary.BigEndian.PutUint64(nonceBytes[:], nonce)
	var momentBytes [8]byte
	binary.BigEndian.PutUint64(momentBytes[:], uint64(momentUnixNano))
	return Digest(caller.Bytes(), nonceBytes[:], momentBytes[:])
}

// ContentAddress hashes a raw documentation payload with BLAKE3 into a
// fixed-length hex content-address suitable for storage as a DocString. It is
// deliberately a different hash family than Digest: content addressing is a
// bulk, off-critical-path operation (hashing a whole document body) while
// Digest is the consensus-critical entity-hash capability spec.md injects.
func ContentAddress(payload []byte) string {
	sum := blake3.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// VerifyContentAddress reports whether doc is the BLAKE3 content address of
// payload, returning an error only when the inputs cannot be compared at all
// (an empty doc string).
func VerifyContentAddress(doc string, payload []byte) (bool, error) {
	if doc == "" {
		return false, fmt.Errorf("crypto: empty documentation string")
	}
	return doc == ContentAddress(payload), nil
}
