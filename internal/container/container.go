package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/finman/user-service/config"
	"github.com/finman/user-service/internal/domain/repository"
	"github.com/finman/user-service/pkg/helpers"
)

// App-level container sharing constructed singletons across packages so the
// router can auto-wire modules from them.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	userRepo    repository.UserRepository
	jwtManager  *helpers.JWTManager
	rabbitPub   *helpers.RabbitPublisher
	esClient    *elasticsearch.Client
)

func SetConfig(c *config.Config)                { cfg = c }
func GetConfig() *config.Config                 { return cfg }
func SetLogger(l *logrus.Logger)                { logger = l }
func GetLogger() *logrus.Logger                 { return logger }
func SetPGPool(p *pgxpool.Pool)                 { pgPool = p }
func GetPGPool() *pgxpool.Pool                  { return pgPool }
func SetRedis(r *redis.Client)                  { redisClient = r }
func GetRedis() *redis.Client                   { return redisClient }
func SetUserRepo(r repository.UserRepository)   { userRepo = r }
func GetUserRepo() repository.UserRepository    { return userRepo }
func SetJWT(m *helpers.JWTManager)              { jwtManager = m }
func GetJWT() *helpers.JWTManager               { return jwtManager }
func SetRabbitPub(p *helpers.RabbitPublisher)   { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher    { return rabbitPub }
func SetES(c *elasticsearch.Client)             { esClient = c }
func GetES() *elasticsearch.Client              { return esClient }
