// Command migrate applies the database schema.
package main

import (
	"flag"
	"fmt"
	"log"

	"caerus/internal/config"
	"caerus/internal/database"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	status := flag.Bool("status", false, "Print the tables GORM would manage and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Connect already auto-migrates outside production; calling AutoMigrate
	// again is harmless and makes this command do the right thing there too.
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if *status {
		return printStatus(db)
	}

	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	log.Printf("schema applied for %d models", len(database.PersistentModels()))
	return nil
}

func printStatus(db *gorm.DB) error {
	for _, model := range database.PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return fmt.Errorf("parse model: %w", err)
		}
		exists := db.Migrator().HasTable(model)
		log.Printf("%-24s exists=%v", stmt.Schema.Table, exists)
	}
	return nil
}
