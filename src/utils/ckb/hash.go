package ckb

import (
	"github.com/minio/blake2b-simd"
)

// The chain's domain separation tag, always 16 bytes
const Personalization = "ckb-default-hash"

// Blake2b256 is the chain's hash function: BLAKE2b with a 32 byte
// digest, personalized with the network's domain separation tag
func Blake2b256(data []byte) (out Hash) {
	hasher, err := blake2b.New(&blake2b.Config{
		Size:   32,
		Person: []byte(Personalization),
	})
	if err != nil {
		panic(err)
	}

	// The hash.Hash contract: Write never returns an error
	/* #nosec */
	hasher.Write(data)

	copy(out[:], hasher.Sum(nil))
	return
}

// CodeHash derives the content identity of the lockscript binary. It is
// computed once at deployment and referenced forever after.
func CodeHash(payload []byte) Hash {
	return Blake2b256(payload)
}

// TransactionHash digests the canonical molecule encoding of the raw
// transaction. The same bytes are hashed by the network, so this value
// doubles as the signing digest.
func TransactionHash(tx *Transaction) (Hash, error) {
	raw, err := SerializeRawTransaction(tx)
	if err != nil {
		return Hash{}, err
	}
	return Blake2b256(raw), nil
}
