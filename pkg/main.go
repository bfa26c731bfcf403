package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	pkg "git.solsynth.dev/hypernet/tribune/pkg/internal"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/cache"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/conf"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/gate"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/models"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/security"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/services"
	"git.solsynth.dev/hypernet/tribune/pkg/internal/storage/postgres"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" _____     _ _\n|_   _| __(_) |__  _   _ _ __   ___\n  | || '__| | '_ \\| | | | '_ \\ / _ \\\n  | || |  | | |_) | |_| | | | |  __/\n  |_||_|  |_|_.__/ \\__,_|_| |_|\\___|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Hypernet.Tribune"), pkg.AppVersion)
	fmt.Printf("The community discussion service in Hypernet\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	conf.LoadDefaults()
	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("An error occurred when loading settings, using defaults...")
	}

	// Set up the in-process cache
	if err := cache.Setup(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when setting up the cache.")
	}

	// Connect to database
	store, err := postgres.New(viper.GetString("storage.dsn"))
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connecting to the database.")
	}

	files := afero.NewBasePathFs(afero.NewOsFs(), viper.GetString("attachments.path"))
	manager := services.NewManager(gate.New(store), files)

	// Seed the bootstrap administrator when configured
	ctx := context.Background()
	if raw := viper.GetString("seed.root_password"); raw != "" {
		username, err := models.NewName(viper.GetString("seed.root_username"))
		if err != nil {
			log.Fatal().Err(err).Msg("An error occurred when reading the root username.")
		}
		password, err := security.NewPassword(raw)
		if err != nil {
			log.Fatal().Err(err).Msg("An error occurred when reading the root password.")
		}
		if _, err := manager.EnsureRootAccount(ctx, username, password); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when seeding the root account.")
		}
	}

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", func() {
		if err := manager.SweepOrphanAttachments(ctx); err != nil {
			log.Error().Err(err).Msg("An error occurred when sweeping orphan attachments.")
		}
	})
	quartz.Start()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
}
