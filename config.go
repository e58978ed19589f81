package main

import (
	"errors"
	"os"
	"strings"
	"time"

	"imager/internal/adapters/detector"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func setDefaults() {
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.shutdown_timeout", 5*time.Second)
	viper.SetDefault("storage.upload_dir", "/tmp/imager")
	viper.SetDefault("upload.max_size", 10<<20)
	viper.SetDefault("worker.count", 4)
	viper.SetDefault("worker.queue_size", 64)
	viper.SetDefault("face.enabled", true)
	viper.SetDefault("face.cascade_path", "")

	face := detector.DefaultOptions()
	viper.SetDefault("face.min_size", face.MinSize)
	viper.SetDefault("face.max_size", face.MaxSize)
	viper.SetDefault("face.shift_factor", face.ShiftFactor)
	viper.SetDefault("face.scale_factor", face.ScaleFactor)
	viper.SetDefault("face.iou_threshold", face.IoUThreshold)
	viper.SetDefault("face.quality_threshold", face.QualityThreshold)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.pretty", false)
}

// initConfig reads the optional config file and environment, then configures logging.
func initConfig() error {
	setDefaults()

	viper.SetEnvPrefix("IMAGER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case errors.As(err, &notFound):
		// defaults and environment only
	case err != nil:
		return err
	}

	setupLogging()

	if used := viper.ConfigFileUsed(); used != "" {
		log.Info().Str("file", used).Msg("read config file")
	}

	return nil
}

func setupLogging() {
	if viper.GetBool("log.pretty") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	var logLevel zerolog.Level

	switch viper.GetString("log.level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		log.Fatal().Err(err).Str("key", key).Msg("could not bind flag")
	}
}
