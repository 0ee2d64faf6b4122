package wire

import (
	"Autopost/internal/api"
	"Autopost/internal/api/config"
	"Autopost/internal/api/handler"
	"Autopost/internal/api/middleware"
	"Autopost/internal/job"
	"Autopost/internal/model"
	"Autopost/internal/pkg/cron"
	"Autopost/internal/pkg/es"
	"Autopost/internal/pkg/feed"
	"Autopost/internal/pkg/kafka"
	"Autopost/internal/pkg/llm"
	"Autopost/internal/pkg/mongo"
	"Autopost/internal/pkg/platform"
	"Autopost/internal/pkg/publisher"
	"Autopost/internal/pkg/redis"
	"Autopost/internal/pkg/security"
	"Autopost/internal/repository"
	"Autopost/internal/service"
	"io"
	log "log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Infrastructure 已建立的外部连接，Mongo 与 ES 可为 nil
type Infrastructure struct {
	DB        *gorm.DB
	Redis     *goredis.Client
	Mongo     *mongodriver.Database
	ES        *elasticsearch.TypedClient
	AccessLog io.Writer
}

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager
	ContentES    es.ContentRepo
	closers      []func() error
}

// Close 释放构建过程中创建的资源
func (a *ApplicationContainer) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			log.Error("Failed to release resource", "err", err)
		}
	}
}

func BuildApplication(infra Infrastructure, cfg *config.Config) (*ApplicationContainer, error) {
	app := &ApplicationContainer{DB: infra.DB}
	store := redis.NewStore(infra.Redis)

	// 可选组件
	contentES := es.NewNoopContentRepo()
	if infra.ES != nil {
		contentES = es.NewContentRepo(infra.ES, cfg.Elastic.Indices.ContentIndex)
	}
	app.ContentES = contentES

	logRepo := mongo.NewNoopGenerationLogRepo()
	if infra.Mongo != nil {
		logRepo = mongo.NewGenerationLogRepo(infra.Mongo)
	}

	events := service.NewNoopEventSink()
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewEventProducer(cfg)
		if err != nil {
			return nil, err
		}
		events = producer
		app.closers = append(app.closers, producer.Close)
	}

	// LLM
	generator, err := llm.NewLangChainGenerator(cfg.LLM)
	if err != nil {
		app.Close()
		return nil, err
	}
	prompts, err := llm.LoadPrompts(cfg.LLM.PromptsPath)
	if err != nil {
		app.Close()
		return nil, err
	}

	platforms := platform.NewTable(map[model.Platform]platform.Adapter{
		model.PlatformTwitter: publisher.NewTwitterAdapter(cfg.Twitter),
	})
	fetcher := feed.NewGofeedFetcher(time.Duration(cfg.Feed.Timeout)*time.Second, cfg.Feed.UserAgent)
	jwtManager := security.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.ExpireHours)*time.Hour)

	// Repository
	userRepo := repository.NewUserRepo(infra.DB)
	sourceRepo := repository.NewContentSourceRepo(infra.DB)
	contentRepo := repository.NewDiscoveredContentRepo(infra.DB)
	accountRepo := repository.NewSocialAccountRepo(infra.DB)
	postRepo := repository.NewGeneratedPostRepo(infra.DB)
	snapshotRepo := repository.NewPostAnalyticsRepo(infra.DB)
	analyticsRepo := repository.NewAnalyticsRepo(infra.DB)

	// Service
	authService := service.NewAuthService(userRepo, jwtManager, store)
	sourceService := service.NewContentSourceService(sourceRepo, contentES)
	crawlerService := service.NewCrawlerService(sourceRepo, contentRepo, contentES, fetcher, store)
	generationService := service.NewGenerationService(generator, prompts, platforms, logRepo)
	dispatcher := service.NewPublishDispatcher(accountRepo, platforms)
	accountService := service.NewSocialAccountService(accountRepo, dispatcher)
	contentService := service.NewDiscoveredContentService(contentRepo, contentES, generationService)
	postService := service.NewGeneratedPostService(
		postRepo, contentRepo, accountRepo, snapshotRepo,
		generationService, dispatcher, platforms, store, events,
	)
	analyticsService := service.NewAnalyticsService(analyticsRepo, postRepo, snapshotRepo, store)
	retentionService := service.NewRetentionService(contentRepo, contentES, cfg.Cron.RetentionDays)

	handlers := &api.HandlersGroup{
		AuthHandler:              handler.NewAuthHandler(authService),
		ContentSourceHandler:     handler.NewContentSourceHandler(sourceService, crawlerService),
		DiscoveredContentHandler: handler.NewDiscoveredContentHandler(contentService),
		SocialAccountHandler:     handler.NewSocialAccountHandler(accountService),
		GeneratedPostHandler:     handler.NewGeneratedPostHandler(postService, generationService),
		AnalyticsHandler:         handler.NewAnalyticsHandler(analyticsService),
	}

	app.Router = api.SetupRouter(handlers, api.RouterOptions{
		Auth:           middleware.AuthMiddleware(jwtManager, authService),
		AccessLog:      infra.AccessLog,
		LogIndex:       cfg.Log.Index,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	// 定时任务
	app.CronMgr = cron.NewCronManager(
		cfg.Cron,
		job.NewCrawlJob(crawlerService, store),
		job.NewRetentionJob(retentionService, store),
	)

	// Kafka 消费者
	if len(cfg.Kafka.Brokers) > 0 && cfg.KafkaAnalyticsConsumer.Topic != "" {
		kafkaMgr, err := kafka.NewConsumerManager(cfg, postRepo, snapshotRepo)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.KafkaManager = kafkaMgr
	}

	return app, nil
}
