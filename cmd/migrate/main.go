package main

import (
	"hotel/config"
	"hotel/helper"
	"hotel/shared/logger"
	"os"

	"github.com/rs/zerolog/log"
)

const usage = "usage: migrate up|down|step-up|drop|version|force <version>"

func main() {
	if len(os.Args) < 2 {
		log.Fatal().Msg(usage)
	}

	cfg := config.Get()
	logger.InitLogger(cfg)

	if err := helper.Runner(cfg, os.Args[1], os.Args[2:]...); err != nil {
		log.Fatal().Err(err).Str("action", os.Args[1]).Msg(usage)
	}
}
