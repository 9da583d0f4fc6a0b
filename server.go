package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"socialnet/api/middleware"
	"socialnet/api/routes"
	"socialnet/config"
	"socialnet/db"
	"socialnet/services"

	"github.com/gin-gonic/gin"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	if err := db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	ctx := context.Background()

	// Redis и RabbitMQ не обязательны: без них фан-аут и push работают
	// синхронно, деградируя, а не падая
	if err := services.InitRedis(); err != nil {
		log.Printf("Redis unavailable, fan-out will run inline: %v", err)
	} else {
		defer services.CloseRedis()

		counters := services.NewCounterService(nil)
		fanout := services.NewFanoutService(services.NewFollowService(), counters)
		services.QueueServiceInstance = services.NewQueueService(fanout)
		services.QueueServiceInstance.StartWorkers(ctx)
	}

	if err := services.InitRabbitMQ(); err != nil {
		log.Printf("RabbitMQ unavailable, push falls back to direct WebSocket: %v", err)
	} else {
		defer services.CloseRabbitMQ()
		if err := services.StartNotificationConsumer(ctx, "notification_push"); err != nil {
			log.Printf("Failed to start notification consumer: %v", err)
		}
	}

	reconcileInterval := time.Duration(config.AppConfig.Reconciler.IntervalSeconds) * time.Second
	reconciler := services.NewCounterReconciler(reconcileInterval)
	reconciler.Start(ctx)
	defer reconciler.Stop()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware("socialnet"))

	routes.PublicApi(router)

	addr := fmt.Sprintf("%s:%d", config.AppConfig.Backend.Host, config.AppConfig.Backend.Port)
	if addr == ":0" {
		addr = ":8080"
	}
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
