package main

import (
	"github.com/inklet/inklet/config"
	"github.com/inklet/inklet/models"
	"github.com/inklet/inklet/routes"
	"github.com/inklet/inklet/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Post{}, &models.Comment{})

	mailer := utils.NewMailer(cfg)

	r := routes.SetupRouter(db, mailer)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
