package signer

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/keystore"
)

// NewKeystoreSigner creates a signer from an encrypted keystore file. The
// decrypted key stays in process, so the result behaves like a LocalSigner.
func NewKeystoreSigner(keystorePath, password string) (*LocalSigner, error) {
	keyjson, err := os.ReadFile(keystorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore file: %w", err)
	}

	key, err := keystore.DecryptKey(keyjson, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore: %w", err)
	}

	return NewLocalSigner(key.PrivateKey), nil
}
