package main

import (
	"log"

	corecmd "github.com/m3rciful/artliftbot/core/cmd"
	"github.com/m3rciful/artliftbot/internal/app"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        app.LoadConfig,
		Bootstrap:         app.Bootstrap,
	})
	if err != nil {
		log.Fatalf("artliftbot: %v", err)
	}
}
