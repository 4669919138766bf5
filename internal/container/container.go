package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-notification/config"
	repo "github.com/oksasatya/go-user-notification/internal/domain/repository"
	"github.com/oksasatya/go-user-notification/pkg/helpers"
	"github.com/oksasatya/go-user-notification/pkg/metrics"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client
	userRepo    repo.UserRepository

	rabbitPub  *helpers.RabbitPublisher
	esClient   *elasticsearch.Client
	appMetrics *metrics.AppMetrics
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }
func SetRedis(r *redis.Client)   { redisClient = r }
func GetRedis() *redis.Client    { return redisClient }

func SetUserRepository(r repo.UserRepository) { userRepo = r }
func GetUserRepository() repo.UserRepository  { return userRepo }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
func SetMetrics(m *metrics.AppMetrics)        { appMetrics = m }
func GetMetrics() *metrics.AppMetrics         { return appMetrics }
