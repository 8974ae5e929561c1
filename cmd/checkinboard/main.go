package main

import (
	"checkinboard/internal/di"
	"checkinboard/internal/structures"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using config file and environment")
	}

	flags := &structures.CliFlags{}
	pflag.StringVarP(&flags.ConfigPath, "config", "c", "config/config.yaml", "path to the YAML config file")
	pflag.BoolVar(&flags.DebugMode, "debug", false, "log to the console at debug level")
	pflag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		log.Fatalf("checkinboard: %v", err)
	}
}
