package main

import (
	// Go Internal Packages
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	// Local Packages
	api "minilend-disburser/api"
	config "minilend-disburser/config"
	helpers "minilend-disburser/helpers"
	kafka "minilend-disburser/kafka"
	mongodb "minilend-disburser/repositories/mongodb"
	redis "minilend-disburser/repositories/redis"
	alertsvc "minilend-disburser/services/alerts"
	disbsvc "minilend-disburser/services/disbursements"
	psr "minilend-disburser/services/processors"

	// External Packages
	"github.com/alecthomas/kingpin/v2"
	_ "github.com/jsternberg/zap-logfmt"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

// LoadSecrets Loads the secret variables and overrides the config
func LoadSecrets(k config.Config) config.Config {
	MongoURI := os.Getenv("MONGO_URI")
	if MongoURI != "" {
		k.Mongo.URI = MongoURI
	}

	RedisURI := os.Getenv("REDIS_URI")
	if RedisURI != "" {
		k.Redis.URI = RedisURI
	}

	RedisPassword := os.Getenv("REDIS_PASSWORD")
	if RedisPassword != "" {
		k.Redis.Password = RedisPassword
	}

	KafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if KafkaBrokers != "" {
		k.Kafka.Brokers = strings.Split(KafkaBrokers, ",")
	}

	IsProdMode := os.Getenv("IS_PROD_MODE")
	if IsProdMode != "" {
		k.IsProdMode = IsProdMode == "true"
	}
	return k
}

// LoadConfig loads the default configuration and overrides it with the config file
// specified by the path defined in the config flag
func LoadConfig() *koanf.Koanf {
	configPathMsg := "Path to the application config file"
	configPath := kingpin.Flag("config", configPathMsg).Short('c').Default("config.yml").String()

	kingpin.Parse()
	k := koanf.New(".")
	_ = k.Load(rawbytes.Provider(config.DefaultConfig), yaml.Parser())
	if *configPath != "" {
		_ = k.Load(file.Provider(*configPath), yaml.Parser())
	}
	return k
}

func main() {
	k := LoadConfig()
	appKonf := config.Config{}

	// Unmarshalling config into struct
	err := k.Unmarshal("", &appKonf)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Update and Validate config before starting the server
	updatedKonf := LoadSecrets(appKonf)
	if err = updatedKonf.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if !updatedKonf.IsProdMode {
		helpers.PrintStruct(updatedKonf)
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "logfmt"
	_ = cfg.Level.UnmarshalText([]byte(k.String("logger.level")))
	cfg.InitialFields = make(map[string]any)
	cfg.InitialFields["host"], _ = os.Hostname()
	cfg.InitialFields["service"] = updatedKonf.Application
	cfg.OutputPaths = []string{"stdout"}
	logger, _ := cfg.Build()
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Mongo Connection
	mongoClient, err := mongodb.Connect(ctx, updatedKonf.Mongo.URI)
	if err != nil {
		logger.Fatal("cannot create mongo client", zap.Error(err))
	}

	// Redis Connection
	redisClient, err := redis.Connect(ctx, updatedKonf.Redis.URI, updatedKonf.Redis.Password)
	if err != nil {
		logger.Fatal("cannot create redis client", zap.Error(err))
	}

	jobsRepo := mongodb.NewJobsRepository(mongoClient, updatedKonf.Mongo.Database)
	if err = jobsRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("cannot create job indexes", zap.Error(err))
	}
	alertsRepo := mongodb.NewAlertsRepository(mongoClient, updatedKonf.Mongo.Database)
	dlQueue := redis.NewDeadLetterQueue(redisClient, logger)

	disbursements := disbsvc.NewService(logger, jobsRepo, alertsRepo, updatedKonf.Disbursement)
	alerts := alertsvc.NewService(logger, alertsRepo)

	metrics := kprom.NewMetrics("disburser")
	handlers := api.NewHandlers(logger, disbursements, alerts)
	router := api.NewRouter(handlers, metrics.Handler())
	server := &http.Server{Addr: updatedKonf.Server.Addr, Handler: router}

	if updatedKonf.Kafka.Consume {
		processor := psr.NewPaymentProcessor(logger, disbursements, dlQueue)
		conf := &kafka.ConsumerConfig{
			Brokers:        updatedKonf.Kafka.Brokers,
			Name:           updatedKonf.Kafka.ConsumerName,
			Topic:          updatedKonf.Kafka.Topic,
			RecordsPerPoll: updatedKonf.Kafka.RecordsPerPoll,
		}

		consumer, err := kafka.NewPaymentsConsumer(conf, logger, processor, metrics)
		if err != nil {
			logger.Fatal("cannot create payments consumer", zap.Error(err))
		}

		go func() {
			if err := consumer.Poll(ctx); err != nil {
				logger.Error("payments consumer stopped", zap.Error(err))
				stop()
			}
		}()
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", updatedKonf.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
}
