package main

import (
	"log"
	"os"

	"pdf-toolbox-bot/internal/model"
	"pdf-toolbox-bot/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn, false, database.DefaultPool())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	tables := model.All()
	color.Cyan("Running AutoMigrate for %d tables...", len(tables))
	if err := db.AutoMigrate(tables...); err != nil {
		color.Red("Migration failed: %v", err)
		os.Exit(1)
	}
	color.Green("✅ Migration complete")
}
