package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/minhle2104/shopcore-api/configs"
	"github.com/minhle2104/shopcore-api/internal/adapter/broker"
	"github.com/minhle2104/shopcore-api/internal/adapter/cache"
	apihttp "github.com/minhle2104/shopcore-api/internal/adapter/http"
	"github.com/minhle2104/shopcore-api/internal/adapter/ml"
	"github.com/minhle2104/shopcore-api/internal/adapter/repo"
	"github.com/minhle2104/shopcore-api/internal/logging"
	"github.com/minhle2104/shopcore-api/internal/outbox"
	"github.com/minhle2104/shopcore-api/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)

	// database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancelPing := context.WithTimeout(context.Background(), 60*time.Second)
	err = db.PingContext(ctx)
	cancelPing()
	if err != nil {
		return nil, nil, err
	}

	if cfg.MySQL.MigrationsPath != "" {
		if err := repo.Migrate(db, cfg.MySQL.MigrationsPath); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}

	logger.Info("shopcore-api starting up")

	// redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// broker publisher: the dispatch worker delivers through exactly one of
	// these; "disabled" turns every delivery into a successful no-op.
	pub, closeBroker, err := newPublisher(cfg)
	if err != nil {
		return nil, nil, err
	}

	// repos
	products := repo.NewMySQLProductRepo(db)
	carts := repo.NewMySQLCartRepo(db)
	orders := repo.NewMySQLOrderRepo(db)
	addresses := repo.NewMySQLAddressRepo(db)
	outboxRepo := repo.NewMySQLOutboxRepo(db)
	uow := repo.NewMySQLUnitOfWork(db)

	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	statusCache := cache.NewRedisStatusCache(rdb, cfg.Cache.TTL)

	taxRate, err := decimal.NewFromString(cfg.Checkout.TaxRate)
	if err != nil {
		return nil, nil, fmt.Errorf("checkout.tax_rate: %w", err)
	}

	// usecases
	cartSvc := usecase.NewCartService(carts, products, outboxRepo)
	checkout := usecase.NewCheckout(uow, orders, addresses, outboxRepo, idem, taxRate, cfg.Checkout.OrderPrefix)
	lifecycle := usecase.NewOrderLifecycle(uow, orders, statusCache)
	orderQuery := usecase.NewOrderQuery(orders, statusCache)
	reviews := usecase.NewReviewEvents(outboxRepo)

	// dispatch worker: broker events plus ML side-calls share one durable
	// queue, one retry budget, one backoff.
	mlClient := ml.NewClient(cfg.ML.BaseURL, cfg.ML.AuthToken, cfg.ML.Timeout)
	worker := outbox.NewWorker(outboxRepo, logging.New("outbox"),
		outbox.WithTick(cfg.Outbox.Tick),
		outbox.WithBatchSize(cfg.Outbox.BatchSize),
		outbox.WithMaxAttempts(cfg.Outbox.MaxAttempts),
		outbox.WithBackoff(cfg.Outbox.RetryBackoff),
	)
	worker.Register(usecase.JobEventPublish,
		outbox.NewEventHandler(outbox.NewTopicMap(cfg.Broker.Topics), pub))
	worker.Register(usecase.JobMLSentiment,
		outbox.JSONHandler[usecase.SentimentJob]{HandleFunc: mlClient.AnalyzeSentiment})
	worker.Register(usecase.JobMLFeedback,
		outbox.JSONHandler[usecase.FeedbackJob]{HandleFunc: mlClient.RecordFeedback})

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go worker.Run(workerCtx)

	// handlers + router
	router := apihttp.NewRouter(cfg, apihttp.Handlers{
		Token:    apihttp.NewTokenHandler(cfg),
		Cart:     apihttp.NewCartHandler(cartSvc),
		Checkout: apihttp.NewCheckoutHandler(checkout),
		Orders:   apihttp.NewOrderHandler(orderQuery, lifecycle),
		Events:   apihttp.NewEventsHandler(reviews),
	})

	cleanup := func() {
		stopWorker()
		closeBroker()
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func newPublisher(cfg configs.Config) (outbox.Publisher, func(), error) {
	switch cfg.Broker.Driver {
	case "rabbitmq":
		conn, err := amqp.Dial(cfg.Broker.Rabbit.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
		}
		pub, err := broker.NewRabbitPublisher(ch, cfg.Broker.Rabbit.Exchange)
		if err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, nil, err
		}
		return pub, func() { _ = ch.Close(); _ = conn.Close() }, nil

	case "kafka":
		pub, err := broker.NewKafkaPublisher(cfg.Broker.Kafka.Brokers)
		if err != nil {
			return nil, nil, fmt.Errorf("kafka producer: %w", err)
		}
		return pub, func() { _ = pub.Close() }, nil

	default: // disabled
		return broker.NewNoopPublisher(logging.New("broker")), func() {}, nil
	}
}
