package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/yaoapp/kun/exception"
	"github.com/yaoapp/kun/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Conf the active configuration
var Conf Config

// LogOutput the log writer, nil when logging to stdout
var LogOutput io.WriteCloser

func init() {
	Init()
}

// Init load the configuration and apply the runtime mode
func Init() {
	filename, _ := filepath.Abs(filepath.Join(".", ".env"))
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		Conf = Load()
	} else {
		Conf = LoadFrom(filename)
	}

	if Conf.Mode == "production" {
		Production()
	} else if Conf.Mode == "development" {
		Development()
	}
}

// LoadFrom load the configuration from an env file
func LoadFrom(envfile string) Config {
	file, err := filepath.Abs(envfile)
	if err != nil {
		cfg := Load()
		ReloadLog()
		return cfg
	}

	godotenv.Overload(file)
	cfg := Load()
	ReloadLog()
	return cfg
}

// Load read the configuration from the environment
func Load() Config {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		exception.New("Can't read config %s", 500, err.Error()).Throw()
	}

	cfg.Root, _ = filepath.Abs(cfg.Root)

	// The token secret is required for sign-in. Generate one per boot
	// when not set, sessions then expire on restart.
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = uuid.New().String()
	}

	if cfg.OAuth.RedirectURI == "" {
		cfg.OAuth.RedirectURI = "/oauth/callback"
	}

	return cfg
}

// Production switch to production mode
func Production() {
	os.Setenv("NIRMAN_MODE", "production")
	Conf.Mode = "production"
	log.SetLevel(log.InfoLevel)
	log.SetFormatter(log.TEXT)
	if Conf.LogMode == "JSON" {
		log.SetFormatter(log.JSON)
	}
	gin.SetMode(gin.ReleaseMode)
	ReloadLog()
}

// Development switch to development mode
func Development() {
	os.Setenv("NIRMAN_MODE", "development")
	Conf.Mode = "development"
	log.SetLevel(log.TraceLevel)
	log.SetFormatter(log.TEXT)
	gin.SetMode(gin.DebugMode)
	ReloadLog()
}

// ReloadLog reset the log output target
func ReloadLog() {
	CloseLog()
	if Conf.Log == "" {
		log.SetOutput(os.Stdout)
		return
	}

	logfile, err := filepath.Abs(Conf.Log)
	if err != nil {
		log.SetOutput(os.Stdout)
		return
	}

	logpath := filepath.Dir(logfile)
	if err := os.MkdirAll(logpath, os.ModePerm); err != nil {
		log.SetOutput(os.Stdout)
		return
	}

	LogOutput = &lumberjack.Logger{
		Filename:   logfile,
		MaxSize:    100, // megabytes
		MaxBackups: 10,
		MaxAge:     7, // days
	}
	log.SetOutput(LogOutput)
}

// CloseLog close the log file
func CloseLog() {
	if LogOutput != nil {
		err := LogOutput.Close()
		if err != nil {
			return
		}
		LogOutput = nil
	}
}
