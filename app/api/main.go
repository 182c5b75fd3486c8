package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"
	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/database/mongoclient"
	"github.com/openmark/goapi/base/database/redisclient"
	"github.com/openmark/goapi/base/log"
	"github.com/openmark/goapi/base/metrics"
	bValidator "github.com/openmark/goapi/base/validator"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/order"
	mmiddleware "github.com/openmark/goapi/middleware"
	"github.com/openmark/goapi/service/chain"
	"github.com/openmark/goapi/service/query"
	"github.com/openmark/goapi/service/redis"
	account_delivery "github.com/openmark/goapi/stores/account/delivery/http"
	account_repository "github.com/openmark/goapi/stores/account/repository"
	account_usecase "github.com/openmark/goapi/stores/account/usecase"
	auth_delivery "github.com/openmark/goapi/stores/auth/delivery/http"
	auth_middleware "github.com/openmark/goapi/stores/auth/delivery/http/middleware"
	auth_repository "github.com/openmark/goapi/stores/auth/repository"
	auth_usecase "github.com/openmark/goapi/stores/auth/usecase"
	exchange_delivery "github.com/openmark/goapi/stores/exchange/delivery/http"
	exchange_usecase "github.com/openmark/goapi/stores/exchange/usecase"
	hc_delivery "github.com/openmark/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/openmark/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/openmark/goapi/stores/healthcheck/usecase"
	order_delivery "github.com/openmark/goapi/stores/order/delivery/http"
	order_repository "github.com/openmark/goapi/stores/order/repository"
	order_usecase "github.com/openmark/goapi/stores/order/usecase"
)

func init() {
	configFile := pflag.String("config", "infra/configs/config.yaml", "path to the config file")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init Redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), redisCachePool)

	mmiddleware.SetupCache(redisCache)

	// exchange deployments, one per supported chain
	exchanges := viper.Sub("exchanges")
	keys := exchanges.AllSettings()
	exchangeCfgs := make(map[domain.ChainId]*order.ExchangeCfg)
	for k := range keys {
		chainId := domain.ChainId(exchanges.GetInt(fmt.Sprintf("%s.chainId", k)))
		exchangeAddr := exchanges.GetString(fmt.Sprintf("%s.exchange", k))
		feeRecipients := []domain.Address{}
		for _, fr := range exchanges.GetStringSlice(fmt.Sprintf("%s.feeRecipients", k)) {
			feeRecipients = append(feeRecipients, domain.Address(fr).ToLower())
		}
		exchangeCfgs[chainId] = &order.ExchangeCfg{
			ChainId:       chainId,
			Address:       domain.Address(exchangeAddr).ToLower(),
			FeeRecipients: feeRecipients,
		}
	}

	// init chain service
	networks := viper.Sub("networks")
	keys = networks.AllSettings()
	rpcs := make(map[int32]string)
	for k := range keys {
		chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
		rpcUrl := networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
		rpcs[chainId] = rpcUrl
	}
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls:     rpcs,
		OperatorKey: viper.GetString("chain.operatorKey"),
	})
	if err != nil {
		context.WithField("err", err).Warn("chainService started with error")
	}

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	accountRepo := account_repository.New(q)
	challengeRepo := auth_repository.NewChallengeRepo(redisCache, viper.GetDuration("auth.challengeTTL"))
	sessionStore := auth_repository.NewSessionStore(redisCache)
	orderRepo, err := order_repository.NewOrderRepo(context, q)
	if err != nil {
		context.WithField("err", err).Panic("fail to init order repo")
	}

	hc := hc_usecase.New(hcRepo)
	account := account_usecase.New(accountRepo)
	auth := auth_usecase.New(&auth_usecase.AuthUseCaseCfg{
		ChallengeRepo:      challengeRepo,
		SessionStore:       sessionStore,
		AccountUC:          account,
		JwtSecret:          viper.GetString("auth.jwtSecret"),
		SessionTTL:         viper.GetDuration("auth.sessionTTL"),
		SigningMsgTemplate: viper.GetString("auth.signingMsgTemplate"),
	})
	orderUC := order_usecase.NewOrderUseCase(&order_usecase.OrderUseCaseCfg{
		Repo:      orderRepo,
		Exchanges: exchangeCfgs,
	})
	exchangeUC := exchange_usecase.NewExchangeUseCase(&exchange_usecase.ExchangeUseCaseCfg{
		OrderRepo: orderRepo,
		Chain:     chainService,
		Exchanges: exchangeCfgs,
	})

	authMiddleware := auth_middleware.New(auth)
	cacheMiddleware := mmiddleware.CacheHttp(viper.GetDuration("cache.httpTTL"))

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth, viper.GetString("auth.signingMsgTemplate"))
	account_delivery.New(e, account, authMiddleware.Auth())
	order_delivery.New(e, orderUC, authMiddleware.Auth(), cacheMiddleware)
	exchange_delivery.New(e, exchangeUC, authMiddleware.Auth())

	// periodically reconcile stored order status against the chain
	refreshInterval := viper.GetDuration("exchange.refreshInterval")
	if refreshInterval > 0 {
		go func() {
			ticker := time.NewTicker(refreshInterval)
			defer ticker.Stop()
			for range ticker.C {
				if err := exchangeUC.RefreshOpenOrders(context); err != nil {
					context.WithField("err", err).Warn("RefreshOpenOrders failed")
				}
			}
		}()
	}

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
