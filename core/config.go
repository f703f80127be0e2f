package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage engines
const (
	EngineBolt     = "bolt"
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
)

type (
	Config struct {
		Env                string
		Debug              bool
		TestMode           bool
		Build              string
		AppName            string
		SecretKey          string
		JWTExpirationDelta time.Duration
		RollbarToken       string

		Server    ServerConfig
		Storage   StorageConfig
		Database  DatabaseConfig
		Dashboard DashboardConfig
	}

	ServerConfig struct {
		Address         string
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	StorageConfig struct {
		Engine   string
		BoltPath string
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       int
		User       string
		Password   string
		Name       string
		DisableTLS bool

		// admin role used to create the app role & database
		AdminUser     string
		AdminPassword string
	}

	DashboardConfig struct {
		UpcomingLimit int
		// AttendanceTimeout bounds the per-subject attendance fan-out. Zero disables it.
		AttendanceTimeout time.Duration
	}
)

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, strconv.Itoa(dc.Port))
}

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file
// and the environment (prefixed with the value of ENV).
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("build", "develop")
	conf.SetDefault("appName", "Taskly")
	conf.SetDefault("secretKey", "k2v9-7sd)qnb$+41=zx&pod3(e!x)#*f7(#ah^$ldxm5ewq")
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("rollbarToken", "")

	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.debugHost", ":4000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.disableReqLogs", false)

	conf.SetDefault("storage.engine", EngineBolt)
	conf.SetDefault("storage.boltPath", filepath.Join("data", "taskly.db"))

	conf.SetDefault("database.engine", EnginePostgres)
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", 5432)
	conf.SetDefault("database.user", "taskly")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.name", "taskly")
	conf.SetDefault("database.disableTLS", true)
	conf.SetDefault("database.adminUser", "postgres")
	conf.SetDefault("database.adminPassword", "")

	conf.SetDefault("dashboard.upcomingLimit", 5)
	conf.SetDefault("dashboard.attendanceTimeout", 5*time.Second)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch strings.ToUpper(env) {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:                strings.ToUpper(env),
		Debug:              conf.GetBool("debug"),
		TestMode:           conf.GetBool("testMode"),
		Build:              conf.GetString("build"),
		AppName:            conf.GetString("appName"),
		SecretKey:          conf.GetString("secretKey"),
		JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
		RollbarToken:       conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:         conf.GetString("server.address"),
			Host:            conf.GetString("server.host"),
			DebugHost:       conf.GetString("server.debugHost"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  conf.GetBool("server.disableReqLogs"),
		},
		Storage: StorageConfig{
			Engine:   strings.ToLower(conf.GetString("storage.engine")),
			BoltPath: conf.GetString("storage.boltPath"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetInt("database.port"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			Name:          conf.GetString("database.name"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
		},
		Dashboard: DashboardConfig{
			UpcomingLimit:     conf.GetInt("dashboard.upcomingLimit"),
			AttendanceTimeout: conf.GetDuration("dashboard.attendanceTimeout"),
		},
	}
}
