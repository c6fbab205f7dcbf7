package signer_test

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/sigbridge/internal/config"
	"github.com/yourorg/sigbridge/internal/signer"
	"github.com/yourorg/sigbridge/internal/sigutil"
)

// Test private key from Anvil
const (
	testPrivateKeyHex = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddressHex    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func testKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := crypto.HexToECDSA(testPrivateKeyHex[2:])
	require.NoError(t, err)
	return key
}

func requireRecovers(t *testing.T, sig []byte, digest common.Hash, address common.Address) {
	t.Helper()
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	var r, s [32]byte
	copy(r[:], sig[:32])
	copy(s[:], sig[32:64])
	recovered, err := sigutil.RecoverAddress(digest, r, s, sig[64])
	require.NoError(t, err)
	assert.Equal(t, address, recovered)
}

func TestLocalSigner(t *testing.T) {
	digest := crypto.Keccak256Hash([]byte("sigbridge test digest"))

	t.Run("Create from hex", func(t *testing.T) {
		sig, err := signer.NewLocalSignerFromHex(testPrivateKeyHex)
		require.NoError(t, err)
		assert.Equal(t, testAddressHex, sig.Address().Hex())
	})

	t.Run("Create from hex without 0x prefix", func(t *testing.T) {
		sig, err := signer.NewLocalSignerFromHex(testPrivateKeyHex[2:])
		require.NoError(t, err)
		assert.Equal(t, testAddressHex, sig.Address().Hex())
	})

	t.Run("Invalid hex", func(t *testing.T) {
		_, err := signer.NewLocalSignerFromHex("invalid")
		assert.Error(t, err)
	})

	t.Run("Sign digest", func(t *testing.T) {
		s, err := signer.NewLocalSignerFromHex(testPrivateKeyHex)
		require.NoError(t, err)

		sig, err := s.SignDigest(context.Background(), digest)
		require.NoError(t, err)
		requireRecovers(t, sig, digest, s.Address())
	})
}

func TestKeystoreSigner(t *testing.T) {
	key := testKey(t)
	keyjson, err := keystore.EncryptKey(&keystore.Key{
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
	}, "hunter2", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keystore.json")
	require.NoError(t, os.WriteFile(path, keyjson, 0600))

	t.Run("Decrypts and signs", func(t *testing.T) {
		s, err := signer.NewKeystoreSigner(path, "hunter2")
		require.NoError(t, err)
		assert.Equal(t, testAddressHex, s.Address().Hex())
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := signer.NewKeystoreSigner(path, "wrong")
		assert.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := signer.NewKeystoreSigner(filepath.Join(t.TempDir(), "nope"), "hunter2")
		assert.Error(t, err)
	})
}

// fakeKMS signs with an in-memory key but answers like a cloud KMS: DER
// encoded signatures and no recovery identifier.
type fakeKMS struct {
	key     *ecdsa.PrivateKey
	signErr error
}

func (f *fakeKMS) GetPublicKey(_ context.Context, _ string) ([]byte, error) {
	return crypto.FromECDSAPub(&f.key.PublicKey), nil
}

func (f *fakeKMS) SignDigest(_ context.Context, _ string, digest common.Hash) ([]byte, error) {
	if f.signErr != nil {
		return nil, f.signErr
	}
	priv := secp256k1.PrivKeyFromBytes(crypto.FromECDSA(f.key))
	return dcrecdsa.Sign(priv, digest[:]).Serialize(), nil
}

func TestKMSSigner(t *testing.T) {
	ctx := context.Background()
	key := testKey(t)
	digest := crypto.Keccak256Hash([]byte("kms digest"))

	t.Run("Address from service public key", func(t *testing.T) {
		s, err := signer.NewKMSSigner(ctx, &fakeKMS{key: key}, "alias/test")
		require.NoError(t, err)
		assert.Equal(t, testAddressHex, s.Address().Hex())
	})

	t.Run("Normalizes DER response", func(t *testing.T) {
		s, err := signer.NewKMSSigner(ctx, &fakeKMS{key: key}, "alias/test")
		require.NoError(t, err)

		sig, err := s.SignDigest(ctx, digest)
		require.NoError(t, err)
		requireRecovers(t, sig, digest, s.Address())

		// s must already be canonical
		sVal := new(big.Int).SetBytes(sig[32:64])
		halfN := new(big.Int).Rsh(crypto.S256().Params().N, 1)
		assert.True(t, sVal.Cmp(halfN) <= 0)
	})

	t.Run("Service error propagates", func(t *testing.T) {
		boom := errors.New("kms throttled")
		s, err := signer.NewKMSSigner(ctx, &fakeKMS{key: key, signErr: boom}, "alias/test")
		require.NoError(t, err)

		_, err = s.SignDigest(ctx, digest)
		assert.ErrorIs(t, err, boom)
	})
}

// fakeTransport signs with an in-memory key but reports v as 0/1, the way
// device firmware does.
type fakeTransport struct {
	key    *ecdsa.PrivateKey
	closed bool
}

func (f *fakeTransport) DeriveAddress(_ context.Context, _ string) (common.Address, error) {
	return crypto.PubkeyToAddress(f.key.PublicKey), nil
}

func (f *fakeTransport) SignHash(_ context.Context, _ string, digest common.Hash) ([]byte, error) {
	return crypto.Sign(digest[:], f.key)
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func TestWalletSigner(t *testing.T) {
	ctx := context.Background()
	digest := crypto.Keccak256Hash([]byte("wallet digest"))

	t.Run("Derives address once and signs", func(t *testing.T) {
		s, err := signer.NewWalletSigner(ctx, &fakeTransport{key: testKey(t)}, "m/44'/60'/0'/0/0")
		require.NoError(t, err)
		assert.Equal(t, testAddressHex, s.Address().Hex())

		sig, err := s.SignDigest(ctx, digest)
		require.NoError(t, err)
		requireRecovers(t, sig, digest, s.Address())
	})
}

// fakeRemote signs with whatever key it holds, regardless of the account
// it is asked for.
type fakeRemote struct {
	key *ecdsa.PrivateKey
	raw []byte // overrides the signature when set
}

func (f *fakeRemote) SignDigest(_ context.Context, _ common.Address, digest common.Hash) ([]byte, error) {
	if f.raw != nil {
		return f.raw, nil
	}
	return crypto.Sign(digest[:], f.key)
}

func TestRemoteSigner(t *testing.T) {
	ctx := context.Background()
	digest := crypto.Keccak256Hash([]byte("remote digest"))
	account := common.HexToAddress(testAddressHex)

	t.Run("Signs for the account", func(t *testing.T) {
		s := signer.NewRemoteSigner(&fakeRemote{key: testKey(t)}, account)
		sig, err := s.SignDigest(ctx, digest)
		require.NoError(t, err)
		requireRecovers(t, sig, digest, account)
	})

	t.Run("Detects a service signing with the wrong key", func(t *testing.T) {
		other, err := crypto.GenerateKey()
		require.NoError(t, err)

		s := signer.NewRemoteSigner(&fakeRemote{key: other}, account)
		_, err = s.SignDigest(ctx, digest)

		var recErr *sigutil.RecoveryError
		require.ErrorAs(t, err, &recErr)
		assert.Equal(t, account, recErr.Expected)
	})

	t.Run("Rejects truncated signatures", func(t *testing.T) {
		s := signer.NewRemoteSigner(&fakeRemote{raw: make([]byte, 64)}, account)
		_, err := s.SignDigest(ctx, digest)
		assert.Error(t, err)
	})
}

func TestSharedHashing(t *testing.T) {
	ctx := context.Background()
	s, err := signer.NewLocalSignerFromHex(testPrivateKeyHex)
	require.NoError(t, err)

	t.Run("Sign message", func(t *testing.T) {
		sig, err := signer.SignMessage(ctx, s, []byte("hello sigbridge"))
		require.NoError(t, err)
		require.Len(t, sig, 65)
		assert.Contains(t, []byte{27, 28}, sig[64])
	})

	t.Run("Sign transaction", func(t *testing.T) {
		chainID := big.NewInt(1)
		tx := types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     0,
			To:        &common.Address{},
			Value:     big.NewInt(1000),
			Gas:       21000,
			GasFeeCap: big.NewInt(20000000000),
			GasTipCap: big.NewInt(1000000000),
		})

		signedTx, err := signer.SignTransaction(ctx, s, tx, chainID)
		require.NoError(t, err)

		sender, err := types.Sender(types.LatestSignerForChainID(chainID), signedTx)
		require.NoError(t, err)
		assert.Equal(t, s.Address(), sender)
	})

	t.Run("Sign typed data", func(t *testing.T) {
		typedData := apitypes.TypedData{
			Types: apitypes.Types{
				"EIP712Domain": []apitypes.Type{
					{Name: "name", Type: "string"},
					{Name: "version", Type: "string"},
					{Name: "chainId", Type: "uint256"},
				},
				"Mail": []apitypes.Type{
					{Name: "contents", Type: "string"},
				},
			},
			PrimaryType: "Mail",
			Domain: apitypes.TypedDataDomain{
				Name:    "Sigbridge",
				Version: "1",
				ChainId: math.NewHexOrDecimal256(1),
			},
			Message: apitypes.TypedDataMessage{"contents": "hello"},
		}

		sig, err := signer.SignTypedData(ctx, s, typedData)
		require.NoError(t, err)

		digest, _, err := apitypes.TypedDataAndHash(typedData)
		require.NoError(t, err)
		requireRecovers(t, sig, common.BytesToHash(digest), s.Address())
	})
}

func TestSessionCache(t *testing.T) {
	t.Run("Dials once per key", func(t *testing.T) {
		cache := signer.NewSessionCache()
		dials := 0
		dial := func() (io.Closer, error) {
			dials++
			return &fakeTransport{key: testKey(t)}, nil
		}

		first, err := cache.Open("ledger://m/44'/60'/0'/0/0", dial)
		require.NoError(t, err)
		second, err := cache.Open("ledger://m/44'/60'/0'/0/0", dial)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, dials)
	})

	t.Run("Dial failure is not cached", func(t *testing.T) {
		cache := signer.NewSessionCache()
		boom := errors.New("device unplugged")

		_, err := cache.Open("k", func() (io.Closer, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)

		_, err = cache.Open("k", func() (io.Closer, error) {
			return &fakeTransport{key: testKey(t)}, nil
		})
		assert.NoError(t, err)
	})

	t.Run("CloseAll tears down sessions", func(t *testing.T) {
		cache := signer.NewSessionCache()
		transport := &fakeTransport{key: testKey(t)}

		_, err := cache.Open("k", func() (io.Closer, error) { return transport, nil })
		require.NoError(t, err)
		require.NoError(t, cache.CloseAll())
		assert.True(t, transport.closed)
	})
}

func TestFromContext(t *testing.T) {
	ctx := context.Background()

	t.Run("Private key context", func(t *testing.T) {
		s, err := signer.FromContext(ctx, &config.Context{ECDSAPrivateKey: testPrivateKeyHex})
		require.NoError(t, err)
		assert.Equal(t, testAddressHex, s.Address().Hex())
	})

	t.Run("Key reference private key", func(t *testing.T) {
		s, err := signer.FromContext(ctx, &config.Context{KeyRef: testPrivateKeyHex})
		require.NoError(t, err)
		assert.Equal(t, testAddressHex, s.Address().Hex())
	})

	t.Run("KMS reference", func(t *testing.T) {
		s, err := signer.FromContext(ctx,
			&config.Context{KeyRef: "kms://alias/test"},
			signer.WithKMSClient(&fakeKMS{key: testKey(t)}))
		require.NoError(t, err)
		assert.Equal(t, testAddressHex, s.Address().Hex())
	})

	t.Run("KMS reference without a client", func(t *testing.T) {
		_, err := signer.FromContext(ctx, &config.Context{KeyRef: "kms://alias/test"})
		assert.Error(t, err)
	})

	t.Run("Ledger reference shares the session", func(t *testing.T) {
		cache := signer.NewSessionCache()
		dials := 0
		dialer := signer.WithWalletDialer(func(context.Context) (signer.WalletTransport, error) {
			dials++
			return &fakeTransport{key: testKey(t)}, nil
		})

		cfg := &config.Context{KeyRef: "ledger://m/44'/60'/0'/0/0"}
		for i := 0; i < 2; i++ {
			s, err := signer.FromContext(ctx, cfg, dialer, signer.WithSessionCache(cache))
			require.NoError(t, err)
			assert.Equal(t, testAddressHex, s.Address().Hex())
		}
		assert.Equal(t, 1, dials)
	})

	t.Run("Ledger reference over a foreign session errors", func(t *testing.T) {
		cache := signer.NewSessionCache()
		_, err := cache.Open("ledger://m/44'/60'/0'/0/0", func() (io.Closer, error) {
			return io.NopCloser(nil), nil
		})
		require.NoError(t, err)

		dialer := signer.WithWalletDialer(func(context.Context) (signer.WalletTransport, error) {
			return &fakeTransport{key: testKey(t)}, nil
		})
		_, err = signer.FromContext(ctx,
			&config.Context{KeyRef: "ledger://m/44'/60'/0'/0/0"},
			dialer, signer.WithSessionCache(cache))
		assert.ErrorContains(t, err, "not a wallet transport")
	})

	t.Run("Remote reference", func(t *testing.T) {
		s, err := signer.FromContext(ctx,
			&config.Context{KeyRef: "remote://" + testAddressHex},
			signer.WithRemoteClient(&fakeRemote{key: testKey(t)}))
		require.NoError(t, err)
		assert.Equal(t, testAddressHex, s.Address().Hex())
	})

	t.Run("Keystore password from environment", func(t *testing.T) {
		key := testKey(t)
		keyjson, err := keystore.EncryptKey(&keystore.Key{
			Address:    crypto.PubkeyToAddress(key.PublicKey),
			PrivateKey: key,
		}, "hunter2", keystore.LightScryptN, keystore.LightScryptP)
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "keystore.json")
		require.NoError(t, os.WriteFile(path, keyjson, 0600))
		t.Setenv(config.KeystorePasswordEnv, "hunter2")

		s, err := signer.FromContext(ctx, &config.Context{KeystorePath: path})
		require.NoError(t, err)
		assert.Equal(t, testAddressHex, s.Address().Hex())
	})

	t.Run("Empty context", func(t *testing.T) {
		_, err := signer.FromContext(ctx, &config.Context{})
		assert.Error(t, err)
	})
}
