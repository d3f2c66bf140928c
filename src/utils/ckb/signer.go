package ckb

import (
	"github.com/votesecure/deployer/src/utils/logger"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/sirupsen/logrus"
)

// Signer derives the signing digest from a built transaction, signs it
// with the deployer's key and packages the signature into witnesses.
// Key material is only borrowed for the duration of a Sign call.
type Signer struct {
	log *logrus.Entry
}

func NewSigner() (self *Signer) {
	self = new(Signer)
	self.log = logger.NewSublogger("signer")
	return
}

// Sign fills the transaction's witnesses in place and returns the same
// transaction. Every input is controlled by the same single signature
// lock, so one witness is replicated per input. A transaction mixing
// locks would need per-input witnesses instead.
func (self *Signer) Sign(tx *Transaction, privateKey []byte) (*Transaction, error) {
	digest, err := TransactionHash(tx)
	if err != nil {
		return nil, err
	}

	der, err := self.SignDigest(digest[:], privateKey)
	if err != nil {
		return nil, err
	}

	witness := Witness{
		Lock:       HexBytes(der),
		InputType:  HexBytes{},
		OutputType: HexBytes{},
	}

	tx.Witnesses = make([]HexBytes, len(tx.Inputs))
	for i := range tx.Inputs {
		tx.Witnesses[i] = witness.Lock
	}

	self.log.WithField("tx_hash", digest).
		WithField("witnesses", len(tx.Witnesses)).
		Debug("Transaction signed")

	return tx, nil
}

// SignDigest produces a DER encoded secp256k1 ECDSA signature over a 32
// byte digest
func (self *Signer) SignDigest(digest []byte, privateKey []byte) ([]byte, error) {
	if len(privateKey) != 32 {
		return nil, ErrKeyLength
	}
	if len(digest) != 32 {
		return nil, ErrDigestLength
	}

	key := secp256k1.PrivKeyFromBytes(privateKey)
	defer key.Zero()

	return ecdsa.Sign(key, digest).Serialize(), nil
}
