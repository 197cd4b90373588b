// Package crypto provides the account identity and digest primitives the
// marketplace state machine treats as injected capabilities (spec.md §6):
// AccountId derivation/rendering and the Hash256 digest function. It does not
// verify transaction signatures — that stays with the host runtime.
package crypto

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/ethereum/go-ethereum/crypto"
)

// AddressPrefix is the human-readable bech32 prefix for a rendered AccountId.
type AddressPrefix string

// VelesPrefix is the sole address prefix this marketplace uses; there is only
// one account namespace, unlike the multi-asset ledger this crypto package
// was adapted from.
const VelesPrefix AddressPrefix = "vls"

// AccountId is a 20-byte account identity. It satisfies the "opaque
// equatable-and-orderable identity" contract of spec.md §3: comparing the
// underlying byte arrays gives both equality and a total order, so AccountId
// can key a Go map and sort deterministically without a custom comparator.
type AccountId [20]byte

// NewAccountId validates and wraps a 20-byte slice as an AccountId.
func NewAccountId(b []byte) (AccountId, error) {
	var id AccountId
	if len(b) != len(id) {
		return AccountId{}, fmt.Errorf("crypto: account id must be %d bytes, got %d", len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}

// MustNewAccountId wraps NewAccountId and panics on invalid input; reserved
// for test fixtures and genesis loading where the input is already known-good.
func MustNewAccountId(b []byte) AccountId {
	id, err := NewAccountId(b)
	if err != nil {
		panic(err)
	}
	return id
}

// Less reports whether a sorts before other, giving AccountId a canonical
// total order for deterministic set iteration (authority sets, vote sets).
func (a AccountId) Less(other AccountId) bool {
	return bytes.Compare(a[:], other[:]) < 0
}

// String renders the account as a bech32 address under VelesPrefix.
func (a AccountId) String() string {
	conv, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(string(VelesPrefix), conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

// Bytes returns a defensive copy of the account's raw bytes.
func (a AccountId) Bytes() []byte {
	return append([]byte(nil), a[:]...)
}

// DecodeAccountId parses a bech32-rendered AccountId back into its raw form.
func DecodeAccountId(addrStr string) (AccountId, error) {
	prefix, decoded, err := bech32.Decode(addrStr)
	if err != nil {
		return AccountId{}, fmt.Errorf("crypto: invalid bech32 string: %w", err)
	}
	if AddressPrefix(prefix) != VelesPrefix {
		return AccountId{}, fmt.Errorf("crypto: unexpected address prefix %q", prefix)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return AccountId{}, fmt.Errorf("crypto: error converting bits: %w", err)
	}
	return NewAccountId(conv)
}

// --- Key Management ---
//
// Key generation is retained only to mint AccountId values for tests, CLI
// tooling, and the authority genesis set — not to sign or verify extrinsics,
// which spec.md §1 places outside this state machine's responsibility.

type PrivateKey struct {
	*ecdsa.PrivateKey
}

type PublicKey struct {
	*ecdsa.PublicKey
}

func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := ecdsa.GenerateKey(crypto.S256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// Bytes returns the byte representation of the private key.
func (k *PrivateKey) Bytes() []byte {
	return crypto.FromECDSA(k.PrivateKey)
}

func (k *PrivateKey) PubKey() *PublicKey {
	return &PublicKey{&k.PrivateKey.PublicKey}
}

func (k *PublicKey) AccountId() AccountId {
	return MustNewAccountId(crypto.PubkeyToAddress(*k.PublicKey).Bytes())
}

func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	key, err := crypto.ToECDSA(b)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}
