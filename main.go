package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matka/config"
	"matka/database"
	"matka/jobs"
	"matka/routes"
	"matka/services"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	log := config.NewLogger()

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file loaded")
	}

	db := database.Connect(log)
	database.SeedRootAdmin(db, log)

	tzName := os.Getenv("PLATFORM_TZ")
	if tzName == "" {
		tzName = "Asia/Kolkata"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Fatalf("Invalid PLATFORM_TZ %q: %v", tzName, err)
	}

	svc := services.New(db, loc, services.NewLogPublisher(log), log)
	registry := services.NewWindowRegistry()
	svc.UseWindowRegistry(registry)

	host := os.Getenv("HOST")
	port := os.Getenv("PORT")
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "3000"
	}

	app := fiber.New()
	routes.Setup(app, db, svc)
	jobs.StartWindowScheduler(svc, registry, log)

	addr := fmt.Sprintf("%s:%s", host, port)
	log.Info("Server running at ", addr)

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Panicf("Failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Info("Gracefully shutting down...")
	if err := app.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Info("Server exited cleanly")
}
