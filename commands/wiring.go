package commands

import (
	"context"

	"skillsmatrix/cache"
	"skillsmatrix/config"
	"skillsmatrix/database"
	repository "skillsmatrix/repositories"
	"skillsmatrix/services"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// app holds the connected stores and the services built on them.
type app struct {
	mongo *mongo.Client
	redis *redis.Client

	assessments    services.AssessmentService
	skillsMatrix   services.SkillsMatrixService
	analytics      services.AnalyticsService
	requiredSkills services.RequiredSkillsService
}

func buildApp(ctx context.Context, cfg config.Config, log *zap.Logger) (*app, error) {
	client, err := database.Connect(ctx, cfg.MongoURI, log)
	if err != nil {
		return nil, err
	}
	database.CheckIfReplicaSet(ctx, client, log)

	db := client.Database(cfg.MongoDatabase)
	if err := database.CreateBaselineIndexes(ctx, db); err != nil {
		log.Warn("failed to create baseline indexes", zap.Error(err))
	}

	assessmentRepo := repository.NewAssessmentRepository(db, database.PrefixNaming, database.NewIndexGuard())
	requiredRepo := repository.NewRequiredSkillsRepository(db)

	var archive repository.UploadArchiveRepository
	if cfg.ArchiveUploads {
		archive = repository.NewUploadArchiveRepository(db)
	}

	a := &app{mongo: client}

	a.requiredSkills = services.NewRequiredSkillsService(requiredRepo, log)
	a.skillsMatrix = services.NewSkillsMatrixService(assessmentRepo, a.requiredSkills, cfg.DefaultNamespace, cfg.AggregatorConcurrency, log)
	a.analytics = services.NewAnalyticsService(assessmentRepo, requiredRepo, cfg.DefaultNamespace, log)

	var invalidator services.CacheInvalidator
	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, aggregate cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = a.redis.Close()
			a.redis = nil
		} else {
			cached := cache.NewAnalyticsCache(a.analytics, cache.NewRedisStore(a.redis), cfg.Redis.TTL, log)
			a.analytics = cached
			invalidator = cached
			log.Info("aggregate cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
		}
	}

	a.assessments = services.NewAssessmentService(assessmentRepo, requiredRepo, archive, invalidator, cfg, log)
	return a, nil
}

func (a *app) Close(ctx context.Context, log *zap.Logger) {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn("failed to close redis", zap.Error(err))
		}
	}
	if err := a.mongo.Disconnect(ctx); err != nil {
		log.Error("failed to disconnect from MongoDB", zap.Error(err))
	}
}
