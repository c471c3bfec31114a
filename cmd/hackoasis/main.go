package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sandipan3/hackoasis-backend/adapters/events"
	"github.com/Sandipan3/hackoasis-backend/adapters/ledger"
	"github.com/Sandipan3/hackoasis-backend/adapters/store"
	"github.com/Sandipan3/hackoasis-backend/adapters/tokenizer"
	"github.com/Sandipan3/hackoasis-backend/ports"
	"github.com/Sandipan3/hackoasis-backend/service"
	"github.com/Sandipan3/hackoasis-backend/transport/http"
)

func main() {
	ctx := context.Background()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	tokenTTL := tokenizer.DefaultTokenTTL
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("Invalid TOKEN_TTL: %v", err)
		}
		tokenTTL = parsed
	}

	mongoURL := os.Getenv("MONGO_URL")
	if mongoURL == "" {
		log.Fatal("MONGO_URL must be set")
	}
	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "hackoasis"
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("Warning: failed to disconnect MongoDB: %v", err)
		}
	}()

	identityStore := store.NewMongoStore(mongoClient, mongoDB)
	if err := identityStore.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	// Login events are optional; without Redis the service runs standalone.
	var eventPub ports.EventPublisher
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)

		logger := watermill.NewStdLogger(false, false)
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			logger,
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}
		eventPub = events.NewWatermillPublisher(publisher)
	}

	rpcURL := os.Getenv("RPC_URL")
	contractAddress := os.Getenv("CONTRACT_ADDRESS")
	adminKey := os.Getenv("ADMIN_PRIVATE_KEY")
	if rpcURL == "" || contractAddress == "" || adminKey == "" {
		log.Fatal("RPC_URL, CONTRACT_ADDRESS and ADMIN_PRIVATE_KEY must be set")
	}

	contractLedger, err := ledger.NewContractLedger(ctx, rpcURL, contractAddress, adminKey)
	if err != nil {
		log.Fatalf("Failed to connect to voting contract: %v", err)
	}
	defer contractLedger.Close()

	jwtTokenizer := tokenizer.NewJWTTokenizer([]byte(jwtSecret), tokenTTL)
	authService := service.NewAuthService(identityStore, jwtTokenizer, eventPub)

	router := http.SetupRouter(authService, jwtTokenizer, contractLedger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	log.Printf("Server running at port : %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
