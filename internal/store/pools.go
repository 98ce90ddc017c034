package store

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/MKhiriev/bsdr/internal/config"
	"github.com/MKhiriev/bsdr/internal/logger"
)

// Pools routes statements to the read-write connection and reads to the
// read-only replicas. Reads rotate over the replicas with an atomic
// round-robin counter; with no replicas configured every read falls back to
// the read-write connection.
type Pools struct {
	rw   *DB
	ro   []*DB
	next atomic.Uint64
}

// NewPools connects the read-write pool and every configured replica.
// A replica that fails to connect fails startup; a degraded replica set is
// worse than an explicit error at boot.
func NewPools(ctx context.Context, cfg config.DB, log *logger.Logger) (*Pools, error) {
	rw, err := NewConnectPostgres(ctx, cfg.DSN, log)
	if err != nil {
		return nil, err
	}

	pools := &Pools{rw: rw}

	for _, dsn := range cfg.ReadDSNs {
		ro, err := NewConnectPostgres(ctx, dsn, log)
		if err != nil {
			pools.Close()
			return nil, err
		}
		pools.ro = append(pools.ro, ro)
	}

	log.Info().
		Str("func", "NewPools").
		Int("read_replicas", len(pools.ro)).
		Msg("database pools ready")

	return pools, nil
}

// Write returns the read-write connection.
func (p *Pools) Write() *DB {
	return p.rw
}

// Read returns the next read connection in rotation, or the read-write
// connection when no replicas are configured.
func (p *Pools) Read() *DB {
	if len(p.ro) == 0 {
		return p.rw
	}

	n := p.next.Add(1)
	return p.ro[(n-1)%uint64(len(p.ro))]
}

// Close closes every underlying connection and joins their errors.
func (p *Pools) Close() error {
	errs := make([]error, 0, len(p.ro)+1)

	if p.rw != nil {
		errs = append(errs, p.rw.Close())
	}
	for _, ro := range p.ro {
		errs = append(errs, ro.Close())
	}

	return errors.Join(errs...)
}
