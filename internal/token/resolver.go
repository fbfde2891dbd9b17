package token

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"mempoolScope/internal/model"
)

// Lookup performs the external metadata call for a token contract.
type Lookup interface {
	TokenMeta(ctx context.Context, token common.Address) (model.TokenMetadata, error)
}

// Config holds resolver cache and budget settings.
type Config struct {
	// CacheSize bounds the number of cached entries (LRU eviction).
	CacheSize int
	// PositiveTTL is the retention for found entries. Zero means no expiry.
	PositiveTTL time.Duration
	// NegativeTTL is the retention for not-found entries.
	NegativeTTL time.Duration
	// LookupBudget caps a single external lookup. A lookup exceeding the
	// budget is cached as a negative entry.
	LookupBudget time.Duration
}

// DefaultConfig returns the resolver defaults.
func DefaultConfig() Config {
	return Config{
		CacheSize:    4096,
		PositiveTTL:  0,
		NegativeTTL:  10 * time.Minute,
		LookupBudget: 3 * time.Second,
	}
}

// Resolver is a cache-backed address-to-token-metadata lookup. Resolve never
// fails outward: lookup errors become negative cache entries with the UNKNOWN
// sentinel. Concurrent misses for the same address share one in-flight call.
type Resolver struct {
	lookup Lookup
	cfg    Config
	cache  *lru.Cache[common.Address, model.TokenMetadata]
	flight singleflight.Group
	logger *zap.Logger
	now    func() time.Time
}

// NewResolver builds a resolver over the given external lookup.
func NewResolver(lookup Lookup, cfg Config, logger *zap.Logger) (*Resolver, error) {
	if lookup == nil {
		return nil, fmt.Errorf("lookup is nil")
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultConfig().CacheSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cache, err := lru.New[common.Address, model.TokenMetadata](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("build token cache: %w", err)
	}

	return &Resolver{
		lookup: lookup,
		cfg:    cfg,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Resolve returns token metadata for an address, from cache when fresh,
// otherwise via a single coalesced external lookup.
func (r *Resolver) Resolve(ctx context.Context, address common.Address) model.TokenMetadata {
	if entry, ok := r.cache.Get(address); ok && r.fresh(entry) {
		return entry
	}

	value, _, _ := r.flight.Do(address.Hex(), func() (interface{}, error) {
		return r.fetch(ctx, address), nil
	})

	entry, ok := value.(model.TokenMetadata)
	if !ok {
		return model.UnknownTokenMetadata(address.Hex(), r.now())
	}
	return entry
}

func (r *Resolver) fetch(ctx context.Context, address common.Address) model.TokenMetadata {
	lookupCtx := ctx
	if r.cfg.LookupBudget > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, r.cfg.LookupBudget)
		defer cancel()
	}

	meta, err := r.lookup.TokenMeta(lookupCtx, address)
	if err != nil {
		r.logger.Debug("token metadata lookup failed",
			zap.String("token", address.Hex()),
			zap.Error(err),
		)
		meta = model.UnknownTokenMetadata(address.Hex(), r.now())
	} else {
		meta.ResolvedAt = r.now()
	}

	r.cache.Add(address, meta)
	return meta
}

func (r *Resolver) fresh(entry model.TokenMetadata) bool {
	ttl := r.cfg.PositiveTTL
	if !entry.Found {
		ttl = r.cfg.NegativeTTL
	}
	if ttl <= 0 {
		return entry.Found
	}
	return r.now().Sub(entry.ResolvedAt) < ttl
}
