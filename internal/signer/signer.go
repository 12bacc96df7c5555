package signer

// Signer signs generated records
type Signer interface {
	// SignDetached creates an armored detached signature (<record>.asc)
	SignDetached(data []byte) ([]byte, error)

	// GetPublicKey returns the public key
	GetPublicKey() ([]byte, error)
}
