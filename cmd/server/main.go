package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"cosysta-be/internal/address"
	"cosysta-be/internal/api"
	"cosysta-be/internal/cart"
	"cosysta-be/internal/config"
	"cosysta-be/internal/db"
	"cosysta-be/internal/inventory"
	"cosysta-be/internal/logger"
	"cosysta-be/internal/notify"
	"cosysta-be/internal/order"
	"cosysta-be/internal/product"
	"cosysta-be/internal/shop"
	"cosysta-be/internal/subscription"
	"cosysta-be/internal/user"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	// Push transport is optional: without a broker the app still runs,
	// persisted notifications and email keep working.
	var push notify.PushPublisher
	if cfg.AMQPUrl != "" {
		conn, err := amqp.Dial(cfg.AMQPUrl)
		if err != nil {
			log.Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
		defer conn.Close()

		push, err = notify.NewAMQPPublisher(conn, cfg.PushExchange)
		if err != nil {
			log.Fatal("failed to declare push exchange", zap.Error(err))
		}
	} else {
		log.Warn("AMQP_URL not set, push notifications disabled")
	}

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	shopRepo := shop.NewRepository(database)
	shopSvc := shop.NewService(shopRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo, shopRepo)

	addressRepo := address.NewRepository(database)
	addressSvc := address.NewService(addressRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	notifyRepo := notify.NewRepository(database)
	notifySvc := notify.NewService(notifyRepo, notify.NewSMTPMailer(cfg), push, userRepo)

	adjuster := inventory.NewAdjuster(productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, userRepo, addressRepo, productRepo, adjuster, notifySvc)

	subRepo := subscription.NewRepository(database)
	subSvc := subscription.NewService(subRepo, notifySvc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := subscription.NewSweeper(subSvc, 24*time.Hour)
	go sweeper.Run(ctx)

	router := api.NewRouter(&api.Handler{
		Users:         userSvc,
		Products:      productSvc,
		Shops:         shopSvc,
		Addresses:     addressSvc,
		Carts:         cartSvc,
		Orders:        orderSvc,
		Notifications: notifySvc,
		Subscriptions: subSvc,
	})

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}

	log.Info("server starting", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
