// Package timeout implements the block-indexed timeout scheduler spec.md
// §2 item 6 and §4.6 define: two queues (voting timeouts by DocString,
// sale timeouts by Hash256) drained once per block tick. It is backed by
// go.etcd.io/bbolt rather than core/state's flat storage.Database — the
// same bucket-open idiom the teacher's identity-gateway store.go uses —
// specifically to exploit bbolt's natural sorted-byte-key iteration within
// a bucket, giving the deterministic drain order spec.md §9's "ordered
// container" redesign note and property P6 require without re-sorting in
// application code.
package timeout

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"veles/core/types"
	"veles/crypto"
)

var (
	votingBucket = []byte("voting-timeouts")
	saleBucket   = []byte("sale-timeouts")
)

// Queues owns the two timeout tables in a single bbolt file.
type Queues struct {
	db *bolt.DB
}

// Open opens (creating if absent) the bbolt-backed timeout queues at path.
func Open(path string) (*Queues, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("timeout: open queues: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{votingBucket, saleBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("timeout: init buckets: %w", err)
	}
	return &Queues{db: db}, nil
}

// Close releases the underlying bbolt handle.
func (q *Queues) Close() error {
	if q == nil || q.db == nil {
		return nil
	}
	return q.db.Close()
}

// entryKey composes a bucket key that sorts first by block number (so a
// prefix scan of one block's entries is a contiguous range) and then by the
// member's own canonical bytes, so iteration within a block is itself
// deterministic.
func entryKey(block types.BlockNumber, member []byte) []byte {
	key := append([]byte(nil), block.Bytes()...)
	return append(key, member...)
}

// VotingEnqueue adds doc to the voting-timeout set for block.
func (q *Queues) VotingEnqueue(block types.BlockNumber, doc types.DocString) error {
	return q.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(votingBucket).Put(entryKey(block, []byte(doc)), []byte{1})
	})
}

// VotingDrain returns every DocString enqueued at block, in sorted byte
// order, and removes them from the queue.
func (q *Queues) VotingDrain(block types.BlockNumber) ([]types.DocString, error) {
	prefix := block.Bytes()
	var docs []types.DocString
	err := q.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(votingBucket)
		c := b.Cursor()
		var toDelete [][]byte
		for k, _ := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = c.Next() {
			docs = append(docs, types.DocString(k[len(prefix):]))
			toDelete = append(toDelete, append([]byte(nil), k...))
		}
		for _, k := range toDelete {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	return docs, err
}

// SaleEnqueue adds hash to the sale-timeout set for block.
func (q *Queues) SaleEnqueue(block types.BlockNumber, hash crypto.Hash256) error {
	return q.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(saleBucket).Put(entryKey(block, hash.Bytes()), []byte{1})
	})
}

// SaleRemove removes hash from the sale-timeout set for block, used when a
// sale order completes or closes before its scheduled expiry.
func (q *Queues) SaleRemove(block types.BlockNumber, hash crypto.Hash256) error {
	return q.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(saleBucket).Delete(entryKey(block, hash.Bytes()))
	})
}

// SaleDrain returns every sale hash enqueued at block, in sorted byte order,
// and removes them from the queue.
func (q *Queues) SaleDrain(block types.BlockNumber) ([]crypto.Hash256, error) {
	prefix := block.Bytes()
	var hashes []crypto.Hash256
	err := q.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(saleBucket)
		c := b.Cursor()
		var toDelete [][]byte
		for k, _ := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = c.Next() {
			var h crypto.Hash256
			copy(h[:], k[len(prefix):])
			hashes = append(hashes, h)
			toDelete = append(toDelete, append([]byte(nil), k...))
		}
		for _, k := range toDelete {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	return hashes, err
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}
