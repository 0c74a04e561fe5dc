package main

import (
	"context"
	stdlog "log"

	"b2bconnect-backend/controller"
	"b2bconnect-backend/models"
	"b2bconnect-backend/utils"
	"b2bconnect-backend/utils/logger"
	"b2bconnect-backend/worker"

	"github.com/gin-gonic/gin"
)

var config *models.Config

func Init() {
	var err error
	config, err = utils.GetConfig()
	if err != nil {
		stdlog.Fatal(err)
	}
}

// @title B2BConnect API
// @version 1.0
// @description Business networking backend: company profiles, sector directory, posts and messaging.
// @description
// @description ## Authentication flow
// @description ### Step 1: Register
// @description **POST /auth** - Create an account
// @description `{"email": "user@example.com", "password": "pass123", "first_name": "Jane", "last_name": "Doe"}`
// @description ### Step 2: Sign in
// @description **PUT /auth** - Returns `access_token`; send it as `Bearer YOUR_TOKEN` in the Authorization header.
// @description Browser clients can rely on the session cookie set by the login response instead.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Enter 'Bearer' [space] and then your token.
func main() {
	Init()

	log := logger.NewLogger(config.LogLevel, config.LogFormat)
	log.Infof("Starting %s %s (%s)", config.AppName, config.AppVersion, config.AppEnv)
	log.Debugf("Config loaded: %s", utils.PrintPrettyJSON(config))

	ctx := context.Background()

	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	c := controller.NewController(ctx, config, log)

	// RegisterRoutes blocks on the HTTP server
	go func() {
		if err := c.RegisterRoutes(ctx, config, r, config.BasePath); err != nil {
			log.Fatalf("Server exited: %v", err)
		}
	}()

	// Table bootstrap and sector seeding run as a background cron worker
	bootstrap, err := worker.NewService(ctx, config, log)
	if err != nil {
		log.Fatalf("Failed to create bootstrap worker: %v", err)
	}
	if err := bootstrap.StartInBackground(); err != nil {
		log.Fatalf("Failed to start bootstrap worker: %v", err)
	}

	select {}
}
