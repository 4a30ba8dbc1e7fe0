package seen

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pevans/newswatch/config"
)

// Open builds the store described by cfg, wrapped in Mirrored when a remote
// mirror is configured.
func Open(cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var store Store
	switch cfg.Type {
	case config.StoreFile, "":
		store = NewFileStore(cfg.Path)
	case config.StoreSQLite:
		s, err := NewSQLiteStore(cfg.Path, cfg.Table)
		if err != nil {
			return nil, err
		}
		store = s
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}

	var mirror Mirror
	switch cfg.Mirror.Type {
	case "", config.MirrorNone:
		return store, nil
	case config.MirrorRedis:
		mirror = NewRedisMirror(redis.NewClient(&redis.Options{
			Addr:     cfg.Mirror.RedisAddr,
			Password: cfg.Mirror.RedisPassword,
			DB:       cfg.Mirror.RedisDB,
		}))
	case config.MirrorDropbox:
		mirror = NewDropboxMirror(nil, cfg.Mirror.DropboxToken, cfg.Mirror.DropboxContentURL)
	default:
		return nil, fmt.Errorf("unknown mirror type %q", cfg.Mirror.Type)
	}

	logger.Info("using remote mirror",
		zap.String("type", cfg.Mirror.Type),
		zap.String("remote_path", cfg.Mirror.Path))

	return NewMirrored(store, cfg.Path, mirror, cfg.Mirror.Path, logger), nil
}
