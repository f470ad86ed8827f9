package wire

import (
	"Scribe/internal/api"
	"Scribe/internal/api/config"
	"Scribe/internal/api/handler"
	"Scribe/internal/job"
	"Scribe/internal/pkg/cron"
	"Scribe/internal/pkg/i18n"
	"Scribe/internal/pkg/kafka"
	"Scribe/internal/pkg/minio"
	"Scribe/internal/pkg/mongo"
	"Scribe/internal/pkg/notify"
	"Scribe/internal/repository"
	"Scribe/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// EventPublisher 帖子事件发布，关闭时刷出缓冲
type EventPublisher interface {
	service.PostEventPublisher
	Close() error
}

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router     *gin.Engine
	DB         *gorm.DB
	Dispatcher *notify.Dispatcher
	Publisher  EventPublisher
	CronMgr    *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDb *mongoDB.Database, catalog *i18n.Catalog, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	postRepo := repository.NewPostRepository(db)
	postActionRepo := repository.NewPostActionRepo(db)
	tagRepo := repository.NewTagRepository(db)
	settingRepo := repository.NewSettingRepo(db)
	sysBoxRepo := mongo.NewSysBoxRepo(mongoDb)

	// 通知：站内信总是启用，邮件按配置
	senders := []notify.Sender{notify.NewInboxSender(sysBoxRepo)}
	if cfg.Mail.Enable {
		senders = append(senders, notify.NewMailSender(cfg.Mail))
	}
	dispatcher := notify.NewDispatcher(catalog, cfg.Notify.QueueSize, cfg.Notify.MaxAttempts, senders...)

	var publisher EventPublisher = kafka.NoopPublisher{}
	if cfg.Kafka.Enable {
		producer, err := kafka.NewPostEventProducer(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		publisher = producer
	} else {
		log.Info("kafka disabled, post events are not published")
	}

	settingService := service.NewSettingService(settingRepo)
	tagService := service.NewTagService(tagRepo)
	moderatorService := service.NewModeratorService(userRepo, postRepo)
	captchaService := service.NewCaptchaService(cfg.Captcha)
	userService := service.NewUserService(userRepo, postRepo, settingService, captchaService, dispatcher)
	postService := service.NewPostService(postRepo, postActionRepo, userRepo, tagService, moderatorService, settingService, dispatcher, publisher)
	postActionService := service.NewPostActionService(postRepo, postActionRepo)
	statisticsService := service.NewStatisticsService(postRepo, userRepo, settingService)
	mediaService := service.NewMediaService(minio.NewStorage(), userService, cfg.MinIO.MaxImageSize)
	sysBoxService := service.NewSysBoxService(sysBoxRepo)

	handlers := &api.HandlersGroup{
		UserHandler:       handler.NewUserHandler(userService, captchaService),
		PostHandler:       handler.NewPostHandler(postService),
		PostActionHandler: handler.NewPostActionHandler(postActionService),
		MediaHandler:      handler.NewMediaHandler(mediaService),
		SysBoxHandler:     handler.NewSysBoxHandler(sysBoxService),
		SiteHandler:       handler.NewSiteHandler(cfg.Blog, tagService, statisticsService, settingService),
	}

	router := api.SetupRouter(handlers, cfg.Server)

	cronMgr := cron.NewCronManager(cfg.Cron,
		job.NewModerationDigestJob(moderatorService, postRepo, dispatcher),
		job.NewStatisticsCacheJob(statisticsService),
		job.NewSysBoxCleanJob(sysBoxRepo, cfg.Cron.SysBoxRetentionDays),
	)

	return &ApplicationContainer{
		Router:     router,
		DB:         db,
		Dispatcher: dispatcher,
		Publisher:  publisher,
		CronMgr:    cronMgr,
	}, nil
}
