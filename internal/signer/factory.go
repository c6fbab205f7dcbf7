package signer

import (
	"context"
	"fmt"
	"io"

	"github.com/yourorg/sigbridge/internal/config"
	"github.com/yourorg/sigbridge/internal/keyref"
)

// Option configures the factory with the collaborators remote backends
// need. Local and keystore backends work without any.
type Option func(*options)

type options struct {
	kms      KMSClient
	remote   RemoteClient
	dial     func(ctx context.Context) (WalletTransport, error)
	sessions *SessionCache
}

// WithKMSClient supplies the cloud KMS client for kms:// references
func WithKMSClient(c KMSClient) Option {
	return func(o *options) { o.kms = c }
}

// WithRemoteClient supplies the remote signing client for remote:// references
func WithRemoteClient(c RemoteClient) Option {
	return func(o *options) { o.remote = c }
}

// WithWalletDialer supplies the transport dialer for ledger:// references
func WithWalletDialer(dial func(ctx context.Context) (WalletTransport, error)) Option {
	return func(o *options) { o.dial = dial }
}

// WithSessionCache overrides the session cache used for wallet transports
func WithSessionCache(c *SessionCache) Option {
	return func(o *options) { o.sessions = c }
}

// FromContext creates a signer from the context configuration
func FromContext(ctx context.Context, cfg *config.Context, opts ...Option) (Signer, error) {
	o := &options{sessions: DefaultSessions}
	for _, opt := range opts {
		opt(o)
	}

	if cfg.KeyRef != "" {
		ref, err := keyref.Parse(cfg.KeyRef)
		if err != nil {
			return nil, err
		}
		return fromKeyRef(ctx, cfg, ref, o)
	}

	// Legacy fields, kept for configs that predate key references
	if cfg.ECDSAPrivateKey != "" {
		return NewLocalSignerFromHex(cfg.ECDSAPrivateKey)
	}
	if cfg.KeystorePath != "" {
		password := cfg.ResolveKeystorePassword()
		if password == "" {
			return nil, fmt.Errorf("keystore password is required (set it in the context or via %s)", config.KeystorePasswordEnv)
		}
		return NewKeystoreSigner(cfg.KeystorePath, password)
	}

	return nil, fmt.Errorf("no signer configured in context")
}

func fromKeyRef(ctx context.Context, cfg *config.Context, ref *keyref.KeyRef, o *options) (Signer, error) {
	switch ref.Backend {
	case keyref.BackendLocal:
		return NewLocalSignerFromHex(ref.KeyID)

	case keyref.BackendKeystore:
		password := cfg.ResolveKeystorePassword()
		if password == "" {
			return nil, fmt.Errorf("keystore password is required (set it in the context or via %s)", config.KeystorePasswordEnv)
		}
		return NewKeystoreSigner(ref.Path, password)

	case keyref.BackendKMS:
		if o.kms == nil {
			return nil, fmt.Errorf("no KMS client configured for %s", ref)
		}
		return NewKMSSigner(ctx, o.kms, ref.KeyID)

	case keyref.BackendRemote:
		if o.remote == nil {
			return nil, fmt.Errorf("no remote signing client configured for %s", ref)
		}
		return NewRemoteSigner(o.remote, ref.Account), nil

	case keyref.BackendLedger:
		if o.dial == nil {
			return nil, fmt.Errorf("no wallet transport configured for %s", ref)
		}
		// One session per reference; repeated signers share the device handle.
		session, err := o.sessions.Open(ref.String(), func() (io.Closer, error) {
			return o.dial(ctx)
		})
		if err != nil {
			return nil, err
		}
		transport, ok := session.(WalletTransport)
		if !ok {
			return nil, fmt.Errorf("session for %s is not a wallet transport", ref)
		}
		return NewWalletSigner(ctx, transport, ref.DerivationPath)

	default:
		return nil, fmt.Errorf("unsupported key reference backend %q", ref.Backend)
	}
}
