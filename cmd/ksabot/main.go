package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/m3rciful/ksabot/core/bootstrap"
	"github.com/m3rciful/ksabot/core/cmd"
	coreconfig "github.com/m3rciful/ksabot/core/config"
	"github.com/m3rciful/ksabot/internal/bot"
	"github.com/m3rciful/ksabot/internal/storage"
)

type carrier struct {
	cfg *coreconfig.Config
}

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

func main() {
	// a missing .env is fine, real deployments use the environment
	_ = godotenv.Load()

	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			cfg, err := coreconfig.Load(path)
			if err != nil {
				return nil, err
			}
			return carrier{cfg: cfg}, nil
		},
		Bootstrap: func(c cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			cfg := c.CoreConfig()
			res, err := bootstrap.Run(bootstrap.Options{
				Config:   cfg,
				Database: cfg.Database,
				Modules: bootstrap.Modules{
					Seeders: []bootstrap.Seeder{
						bootstrap.SeederFunc(func(ctx context.Context, st bootstrap.Storage) error {
							return storage.New(st.(*sqlx.DB)).SeedUnits(ctx)
						}),
					},
				},
			})
			if err != nil {
				return nil, fmt.Errorf("bootstrap: %w", err)
			}
			return bot.New(cfg, res.DB), nil
		},
	})
	if err != nil {
		log.Fatalf("ksabot: %v", err)
	}
}
