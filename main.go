package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/apps/go-server/assets"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/config"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/db"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/httpserver"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/store"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/words"
)

func main() {
	cfg := config.Load()
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word bank")
	}

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer conn.Close()
	if err := db.Migrate(conn, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(cfg, mem, conn)
	log.Info().Str("port", cfg.Port).Interface("words", words.Default().Stats()).Msg("starting go-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
