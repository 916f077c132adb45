package container

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"oda/mcp/internal/client"
	"oda/mcp/internal/config"
	"oda/mcp/internal/service"
	"oda/mcp/internal/session"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config  *config.Config
	DataDir string
	Session *session.Store
	Client  client.OdaClient
	Service *service.Service

	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	dataDir, err := resolveDataDir(cfg.Session.DataDir)
	if err != nil {
		return nil, err
	}
	c.DataDir = dataDir

	backend, err := c.newSessionBackend(cfg)
	if err != nil {
		return nil, err
	}
	c.Session = session.NewStore(backend)
	if n := c.Session.Len(); n > 0 {
		log.Debugf("restored session with %d cookies", n)
	}

	c.Client = client.NewOdaClient(cfg.Oda, c.Session)
	c.Service = service.New(c.Client)
	return c, nil
}

func (c *Container) newSessionBackend(cfg *config.Config) (session.Backend, error) {
	switch cfg.Session.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.redis = rdb
		log.Info("using redis session backend")
		return session.NewRedisBackend(rdb, cfg.Redis.Key), nil
	default:
		return session.NewFileBackend(filepath.Join(c.DataDir, "cookies.json")), nil
	}
}

// resolveDataDir expands an empty data dir to ~/.mcp-oda, the location the
// cookie file has always lived in.
func resolveDataDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory: %w", err)
	}
	return filepath.Join(home, ".mcp-oda"), nil
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
