package main

import (
	"context"
	"log"
	"strconv"

	"muebles_back_end/internal/config"
	"muebles_back_end/internal/database"
	"muebles_back_end/internal/handlers"
	"muebles_back_end/internal/notify"
	"muebles_back_end/internal/payment"
	"muebles_back_end/internal/routes"
	"muebles_back_end/internal/search"
	"muebles_back_end/internal/service"
	"muebles_back_end/internal/storage"
	"muebles_back_end/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()
	ctx := context.Background()

	// --- MercadoPago ---
	provider, err := payment.NewMercadoPago(config.MustGet("MERCADOPAGO_ACCESS_TOKEN"))
	if err != nil {
		log.Fatalf("❌ No se pudo inicializar MercadoPago: %v", err)
	}
	log.Println("✅ MercadoPago inicializado")

	// --- ScyllaDB (obligatorio) ---
	scylla, err := database.NewScyllaManager()
	if err != nil {
		log.Fatalf("❌ Error conectando a ScyllaDB: %v", err)
	}
	defer scylla.Close()

	ordersSession, err := scylla.OrdersSession()
	if err != nil {
		log.Fatalf("❌ Keyspace de pedidos no disponible: %v", err)
	}
	productsSession, err := scylla.ProductsSession()
	if err != nil {
		log.Fatalf("❌ Keyspace de productos no disponible: %v", err)
	}

	// --- Redis (obligatorio: secuenciador y cache) ---
	rdb, err := database.NewRedis(ctx)
	if err != nil {
		log.Fatalf("❌ Error conectando a Redis: %v", err)
	}

	// --- Elasticsearch y MinIO (opcionales) ---
	es := search.NewElastic(database.NewElastic())
	images := storage.NewImages(
		database.NewMinIO(ctx),
		config.Get("MINIO_BUCKET", "products"),
		config.Get("MINIO_PUBLIC_URL", ""),
	)

	// --- Stores ---
	orders := store.NewScyllaOrders(ordersSession)
	products := store.NewScyllaProducts(productsSession)
	categories := store.NewScyllaCategories(productsSession)
	sequencer := store.NewRedisSequencer(rdb)

	// --- Mailer ---
	smtpPort, _ := strconv.Atoi(config.Get("SMTP_PORT", "587"))
	mailer := &notify.Mailer{
		Host:       config.Get("SMTP_HOST", ""),
		Port:       smtpPort,
		Username:   config.Get("SMTP_USER", ""),
		Password:   config.Get("SMTP_PASSWORD", ""),
		From:       config.Get("SMTP_FROM", "pedidos@mueblesartesanales.com.ar"),
		AdminEmail: config.Get("ADMIN_EMAIL", ""),
		ClientURL:  config.Get("CLIENT_URL", "http://localhost:3000"),
	}

	// --- Servicio de pedidos ---
	svc := service.NewOrderService(service.Config{
		Orders:    orders,
		Products:  products,
		Sequencer: sequencer,
		Provider:  provider,
		Notifier:  mailer,
		ClientURL: config.Get("CLIENT_URL", "http://localhost:3000"),
		ServerURL: config.Get("SERVER_URL", "http://localhost:8080"),
		Currency:  config.Get("CURRENCY", "ARS"),
	})

	// --- HTTP ---
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.Get("CLIENT_URL", "http://localhost:3000")}
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("Authorization", "x-signature", "x-request-id")
	r.Use(cors.New(corsConfig))

	routes.Register(r, routes.Deps{
		Orders:     handlers.NewOrderHandler(svc),
		Webhooks:   handlers.NewWebhookHandler(svc, provider, config.Get("MERCADOPAGO_WEBHOOK_SECRET", "")),
		Products:   handlers.NewProductHandler(products, categories, es, images, mailer),
		Categories: handlers.NewCategoryHandler(categories, rdb),
		JWTSecret:  config.MustGet("JWT_SECRET"),
	})

	port := config.Get("PORT", "8080")
	log.Printf("🚀 Servidor escuchando en el puerto %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Error iniciando el servidor: %v", err)
	}
}
