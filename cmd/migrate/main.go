package main

import (
	"errors"
	"flag"
	"log"

	"content_moderation/internal/pkg/config"
	"content_moderation/pkg/database"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	source := flag.String("path", "file://migrations", "migration source url")
	down := flag.Bool("down", false, "roll back one step")
	flag.Parse()

	config.LoadConfig()

	m, err := migrate.New(*source, database.MigrateURL(config.GlobalConfig.Database))
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if *down {
		if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal(err)
		}
		log.Println("Rollback successful")
		return
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		// dirty 状态：强制回到失败的版本后重试
		var dirty migrate.ErrDirty
		if !errors.As(err, &dirty) {
			log.Fatal(err)
		}
		log.Printf("Database is dirty, forcing version %d...", dirty.Version)
		if err := m.Force(dirty.Version); err != nil {
			log.Fatal("Failed to force version:", err)
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal(err)
		}
	}

	log.Println("Migration successful")
}
