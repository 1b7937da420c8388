package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/2beens/liftlog/internal/backup"
	"github.com/2beens/liftlog/internal/config"
	"github.com/2beens/liftlog/internal/db"
	"github.com/2beens/liftlog/internal/docstore"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/pkg"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/natefinch/lumberjack.v2"
)

// liftlog google drive backup cmd

type environmentVars struct {
	AdminUsername string `env:"LIFTLOG_ADMIN_USERNAME"`
}

func main() {
	credentialsFile := flag.String(
		"gd-creds",
		"./liftlog-drive-credentials.json",
		"google drive service account credentials json",
	)
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev ]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	logsPath := flag.String("logs-path", "/var/log/liftlog-backend/backup.log", "backup logs file path (empty for stdout)")
	readerEmail := flag.String("share-with", "", "email address given reader access to the backup files")
	reinit := flag.Bool("reinit", false, "reinitialize all again")
	destroy := flag.Bool("destroy", false, "destroy the backups folder and all backup files (warning!!)")

	flag.Parse()

	loggingSetup(*logsPath)

	log.Println("starting liftlog backup ...")

	if *credentialsFile == "" {
		log.Fatalln("google drive credentials json not specified")
	}
	if *reinit {
		log.Println("!! attention: will reinitialize all again...")
	}

	if exists, err := pkg.PathExists(*credentialsFile, false); err != nil {
		log.Fatalf("check credentials file: %v", err)
	} else if !exists {
		log.Fatalf("credentials file %s not found", *credentialsFile)
	}

	credentialsFileBytes, err := os.ReadFile(*credentialsFile)
	if err != nil {
		log.Fatalf("unable to read credentials file: %v", err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx := context.Background()

	var envVars environmentVars
	if err := envconfig.Process(ctx, &envVars); err != nil {
		log.Fatalf("process env vars: %s", err)
	}
	if envVars.AdminUsername == "" {
		log.Fatalln("admin username not set, use LIFTLOG_ADMIN_USERNAME env var to set it")
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	listenDSN := fmt.Sprintf(
		"postgres://postgres@%s:%s/%s?sslmode=disable",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDBName,
	)
	store, err := docstore.NewPostgresStore(
		dbPool,
		listenDSN,
		metrics.NewManager("liftlog", "backup", prometheus.NewRegistry()),
	)
	if err != nil {
		log.Fatalf("new postgres store: %s", err)
	}
	defer store.Close()

	s, err := backup.NewGoogleDriveBackupService(
		ctx,
		credentialsFileBytes,
		store,
		envVars.AdminUsername,
		*readerEmail,
	)
	if err != nil {
		log.Fatalf("failed to create google drive backup service: %s", err)
	}

	if *destroy {
		if err := s.Destroy(); err != nil {
			log.Fatalf("destroy failed: %s", err)
		}
		log.Println("destroy done!")
		return
	}

	baseTime := time.Now()

	if *reinit {
		if err := s.Reinit(ctx, baseTime); err != nil {
			log.Fatalf("reinit failed: %s", err)
		}
		log.Println("reinit done")
		return
	}

	if err := s.DoBackup(ctx, baseTime); err != nil {
		log.Fatalf("%+v", err)
	}
}

func loggingSetup(logFileName string) {
	if logFileName == "" {
		log.SetOutput(os.Stdout)
		return
	}

	if !strings.HasSuffix(logFileName, ".log") {
		logFileName += ".log"
	}

	log.SetOutput(&lumberjack.Logger{
		Filename:  logFileName,
		MaxSize:   50,    // megabytes
		LocalTime: false, // false -> use UTC
		Compress:  true,  // disabled by default
	})
}
