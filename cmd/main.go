package main

import (
	"Compliance-Shield/cmd/config"
	migration "Compliance-Shield/cmd/database/migrate"
	"Compliance-Shield/internal/utils"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatal(err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatal(err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatal(err)
	}

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
