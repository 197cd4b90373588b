// Package types holds the semantic primitives spec.md §3 defines: the
// opaque/equatable/orderable identities and the fixed-precision balance the
// rest of the marketplace state machine is built from.
package types

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/holiman/uint256"
)

// BlockNumber is the unsigned monotonic block counter injected by the host
// runtime (spec.md §6 "Block height").
type BlockNumber uint64

// Bytes big-endian-encodes the block number so lexicographic byte order
// equals numeric order. native/timeout relies on this to key its bbolt
// buckets so draining a block's queue never depends on map iteration order
// (spec.md §9's "ordered container" redesign note).
func (n BlockNumber) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(n))
	return b[:]
}

// Moment is a wall-clock timestamp supplied by the injected Clock capability.
// It wraps time.Time rather than a bare int64 so callers cannot accidentally
// mix Unix-seconds and Unix-nanos across the codebase.
type Moment struct {
	t time.Time
}

// NewMoment wraps a time.Time as a Moment.
func NewMoment(t time.Time) Moment { return Moment{t: t.UTC()} }

// Time returns the underlying time.Time.
func (m Moment) Time() time.Time { return m.t }

// UnixNano returns the moment as nanoseconds since the Unix epoch, the form
// used by crypto.EntityDigest.
func (m Moment) UnixNano() int64 { return m.t.UnixNano() }

// Before reports whether m happened strictly before other.
func (m Moment) Before(other Moment) bool { return m.t.Before(other.t) }

// IsZero reports whether the moment was never set.
func (m Moment) IsZero() bool { return m.t.IsZero() }

// MaxDocStringLength bounds a DocString per spec.md §3; the configured limit
// mirrors the original pallet's BoundedString length (IPFS CIDv1 base32
// strings run to ~59 characters, so 256 bytes comfortably covers a CID plus
// a path suffix without inviting unbounded storage growth).
const MaxDocStringLength = 256

// DocString is the bounded, UTF-8, equatable-and-hashable content-address
// string spec.md §3 defines. It is a defined string type (not a bare
// string) so it cannot be passed where a human-readable name is expected by
// mistake.
type DocString string

// NewDocString validates a candidate documentation string against the length
// bound and UTF-8 well-formedness spec.md §3 requires.
func NewDocString(s string) (DocString, error) {
	if s == "" {
		return "", errors.New("types: documentation string must not be empty")
	}
	if !utf8.ValidString(s) {
		return "", errors.New("types: documentation string must be valid UTF-8")
	}
	if len(s) > MaxDocStringLength {
		return "", fmt.Errorf("types: documentation string exceeds %d bytes", MaxDocStringLength)
	}
	return DocString(s), nil
}

// Balance is the unsigned fixed-precision integer spec.md §3 requires,
// backed by uint256.Int (github.com/holiman/uint256) rather than an
// unconstrained math/big.Int: arithmetic saturates at the type's bounds
// instead of growing without limit, matching "saturating semantics" exactly.
type Balance struct {
	v uint256.Int
}

// ZeroBalance is the additive identity.
var ZeroBalance = Balance{}

// NewBalanceFromUint64 constructs a Balance from a uint64 amount.
func NewBalanceFromUint64(v uint64) Balance {
	var b Balance
	b.v.SetUint64(v)
	return b
}

// Uint64 returns the balance truncated to uint64, for callers (tests, event
// payloads) that know the value fits.
func (b Balance) Uint64() uint64 { return b.v.Uint64() }

// IsZero reports whether the balance is zero.
func (b Balance) IsZero() bool { return b.v.IsZero() }

// Cmp compares two balances the way uint256.Int.Cmp does: -1, 0, or 1.
func (b Balance) Cmp(other Balance) int { return b.v.Cmp(&other.v) }

// GTE reports whether b is greater than or equal to other.
func (b Balance) GTE(other Balance) bool { return b.Cmp(other) >= 0 }

// Add returns the saturating sum of b and other: on overflow the result
// clamps to the maximum representable uint256 rather than wrapping, per
// spec.md §3's saturating-semantics requirement.
func (b Balance) Add(other Balance) Balance {
	var out Balance
	sum, overflow := out.v.AddOverflow(&b.v, &other.v)
	if overflow {
		out.v = *uint256.NewInt(0).Not(uint256.NewInt(0)) // math.MaxUint256
		return out
	}
	out.v = *sum
	return out
}

// Sub returns the saturating difference b-other: on underflow the result
// clamps to zero rather than wrapping.
func (b Balance) Sub(other Balance) Balance {
	var out Balance
	diff, underflow := out.v.SubOverflow(&b.v, &other.v)
	if underflow {
		return ZeroBalance
	}
	out.v = *diff
	return out
}

// Mul returns the saturating product b*other.
func (b Balance) Mul(other Balance) Balance {
	var out Balance
	product, overflow := out.v.MulOverflow(&b.v, &other.v)
	if overflow {
		out.v = *uint256.NewInt(0).Not(uint256.NewInt(0))
		return out
	}
	out.v = *product
	return out
}

// String renders the balance in base 10.
func (b Balance) String() string { return b.v.Dec() }

// MarshalJSON encodes the balance as a base-10 JSON string so large values
// survive round-tripping through float-averse JSON decoders.
func (b Balance) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.v.Dec() + `"`), nil
}

// UnmarshalJSON decodes a base-10 JSON string back into a Balance.
func (b *Balance) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return fmt.Errorf("types: decode balance: %w", err)
	}
	b.v = *v
	return nil
}
