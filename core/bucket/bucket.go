package bucket

import (
	"errors"
	"sync"

	"s3hive/core/storage"

	"go.uber.org/zap"
)

var (
	// ErrEmptyBucket is returned when an operation is called without a bucket name.
	ErrEmptyBucket = errors.New("bucket name is required")
	// ErrEmptyKey is returned when an object operation is called without a key.
	ErrEmptyKey = errors.New("object key is required")
	// ErrEmptyFileName is returned when Upload is called without a local file.
	ErrEmptyFileName = errors.New("file name is required")
)

// ClientFactory builds the storage client from the facade configuration.
type ClientFactory func(cfg storage.Config) (storage.Client, error)

// Option configures a Bucket.
type Option func(*Bucket)

// WithLogger sets the logger operations are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(b *Bucket) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithClientFactory replaces storage.NewClient as the client constructor.
func WithClientFactory(f ClientFactory) Option {
	return func(b *Bucket) {
		if f != nil {
			b.newClient = f
		}
	}
}

// WithClient makes the facade use an existing client instead of building one.
func WithClient(c storage.Client) Option {
	return WithClientFactory(func(storage.Config) (storage.Client, error) {
		return c, nil
	})
}

// Bucket is a facade over the storage client. It holds the connection
// configuration and builds the client on first use. The configuration never
// changes after New; the client is built at most once per Bucket.
type Bucket struct {
	cfg       storage.Config
	logger    *zap.Logger
	newClient ClientFactory

	once      sync.Once
	client    storage.Client
	clientErr error
}

// New creates a facade for the given connection configuration. No request is
// made until the first operation.
func New(cfg storage.Config, opts ...Option) *Bucket {
	b := &Bucket{
		cfg:       cfg,
		logger:    zap.NewNop(),
		newClient: storage.NewClient,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the connection configuration the facade was created with.
func (b *Bucket) Config() storage.Config {
	return b.cfg
}

// getClient returns the client, building it on the first call. A construction
// error is remembered and returned on every call.
func (b *Bucket) getClient() (storage.Client, error) {
	b.once.Do(func() {
		b.client, b.clientErr = b.newClient(b.cfg)
		if b.clientErr == nil {
			b.logger.Debug("Storage client created",
				zap.String("endpoint", b.cfg.Endpoint),
				zap.String("region", b.cfg.Region),
			)
		}
	})
	return b.client, b.clientErr
}

// prepare validates the bucket name and returns the client.
func (b *Bucket) prepare(bucket string) (storage.Client, error) {
	if bucket == "" {
		return nil, ErrEmptyBucket
	}
	return b.getClient()
}

// log returns the operation logger with the bucket field set.
func (b *Bucket) log(op, bucket string) *zap.Logger {
	return b.logger.With(zap.String("op", op), zap.String("bucket", bucket))
}
