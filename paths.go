package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"accessbench/bench"
	"accessbench/cache"
	"accessbench/orm"
	"accessbench/pgnative"
	"accessbench/rest"
	"accessbench/sqlb"
	"accessbench/store"
)

var allKinds = []bench.Kind{
	bench.KindREST,
	bench.KindORM,
	bench.KindORMRaw,
	bench.KindORMCached,
	bench.KindQueryBuilder,
	bench.KindPgx,
}

// available lists the path kinds cfg can run against d, in report order.
func available(cfg Config, d store.Dialect) []bench.Kind {
	var kinds []bench.Kind
	for _, k := range allKinds {
		switch k {
		case bench.KindREST:
			if d.Name != store.Postgres.Name || cfg.RESTURL == "" {
				continue
			}
		case bench.KindORMCached:
			if cfg.CacheTTL <= 0 || cfg.RedisURL == "" {
				continue
			}
		case bench.KindPgx:
			if d.Name != store.Postgres.Name {
				continue
			}
		}
		kinds = append(kinds, k)
	}
	return kinds
}

// selectKinds resolves the requested path list. An empty request selects
// every available path.
func selectKinds(cfg Config, d store.Dialect) ([]bench.Kind, error) {
	avail := available(cfg, d)
	if len(cfg.Paths) == 0 {
		return avail, nil
	}

	var kinds []bench.Kind
	for _, name := range cfg.Paths {
		k := bench.Kind(name)
		if !slices.Contains(allKinds, k) {
			return nil, fmt.Errorf("unknown path %q", name)
		}
		if !slices.Contains(avail, k) {
			return nil, fmt.Errorf("path %q is not available for %s with the current settings", name, d.Name)
		}
		if !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

func openPath(ctx context.Context, cfg Config, d store.Dialect, dsn string, c *cache.Store, k bench.Kind) (bench.Path, error) {
	if k == bench.KindREST {
		return rest.New(cfg.RESTURL, cfg.RESTKey, cfg.HTTPTimeout), nil
	}

	db, err := store.Open(ctx, d, dsn)
	if err != nil {
		return nil, err
	}
	var p bench.Path
	switch k {
	case bench.KindORM:
		p, err = orm.New(db)
	case bench.KindORMRaw:
		p, err = orm.NewRaw(db)
	case bench.KindORMCached:
		p, err = orm.NewCached(db, c, cfg.CacheTTL)
	case bench.KindQueryBuilder:
		p = sqlb.New(db)
	case bench.KindPgx:
		p, err = pgnative.New(db)
	default:
		err = fmt.Errorf("unknown path %q", k)
	}
	if err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// openPaths opens one client handle per kind. If any fails, the ones
// already open are closed.
func openPaths(ctx context.Context, logger *slog.Logger, cfg Config, d store.Dialect, dsn string, c *cache.Store, kinds []bench.Kind) ([]bench.Path, error) {
	paths := make([]bench.Path, 0, len(kinds))
	for _, k := range kinds {
		p, err := openPath(ctx, cfg, d, dsn, c, k)
		if err != nil {
			closePaths(ctx, logger, paths)
			return nil, fmt.Errorf("open %s: %w", k, err)
		}
		logger.DebugContext(ctx, "path ready", slog.String("path", string(k)))
		paths = append(paths, p)
	}
	return paths, nil
}

func closePaths(ctx context.Context, logger *slog.Logger, paths []bench.Path) {
	for _, p := range paths {
		if err := p.Close(); err != nil {
			logger.WarnContext(ctx, "close path",
				slog.String("path", string(p.Kind())),
				slog.Any("error", err),
			)
		}
	}
}
