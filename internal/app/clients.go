package app

import (
	goredis "github.com/redis/go-redis/v9"

	"github.com/xecuteapp/backend/internal/clients/redisclient"
	"github.com/xecuteapp/backend/internal/platform/logger"
)

type Clients struct {
	Redis *goredis.Client
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	rdb, err := redisclient.New(log)
	if err != nil {
		return Clients{}, err
	}

	return Clients{Redis: rdb}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
