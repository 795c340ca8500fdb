// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/note-share-service/internal/dao"
	pkgapp "github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/limiter"
	"github.com/haierkeys/note-share-service/pkg/util"
	"github.com/haierkeys/note-share-service/pkg/workerpool"
	"github.com/haierkeys/note-share-service/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultAuthTokenKey is the placeholder key shipped in the default config.
// DefaultAuthTokenKey 默认配置中的占位密钥
const DefaultAuthTokenKey = "note-share-Auth-Token"

// AppConfig 应用配置
type AppConfig struct {
	File      string          `yaml:"-"` // 配置文件路径，不序列化
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	App       AppSettings     `yaml:"app"`
	User      UserConfig      `yaml:"user"`
	Security  SecurityConfig  `yaml:"security"`
	Tracer    TracerConfig    `yaml:"tracer"`
	RateLimit RateLimitConfig `yaml:"rate-limit"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，为空时只输出到 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式 debug | release | test
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址（metrics / pprof）
	PrivateHttpListen string `yaml:"private-http-listen" default:":9001"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"note-share-Auth-Token"`
	// TokenExpiry 支持格式：7d（天）、24h（小时）、30m（分钟）
	TokenExpiry string `yaml:"token-expiry" default:"7d"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type sqlite | mysql | postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path     string `yaml:"path" default:"storage/database/db.sqlite3"`
	UserName string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	// Port 为 0 时使用驱动默认端口
	Port        int    `yaml:"port"`
	Name        string `yaml:"name"`
	TablePrefix string `yaml:"table-prefix"`
	AutoMigrate bool   `yaml:"auto-migrate" default:"true"`
	Charset     string `yaml:"charset"`
	ParseTime   bool   `yaml:"parse-time"`
	// SSLMode postgres sslmode
	SSLMode string `yaml:"ssl-mode"`
	// Replicas 只读副本，读请求随机分发
	Replicas     []string `yaml:"replicas"`
	MaxIdleConns int      `yaml:"max-idle-conns" default:"10"`
	MaxOpenConns int      `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 支持格式：30m（分钟）、1h（小时）
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
	// SlowThreshold 慢查询阈值
	SlowThreshold string `yaml:"slow-threshold" default:"200ms"`
}

// UserConfig 用户配置
type UserConfig struct {
	// RegisterIsEnable 注册是否启用
	RegisterIsEnable bool `yaml:"register-is-enable" default:"true"`
	// AdminUID 管理员 UID，0 表示关闭管理接口
	AdminUID int64 `yaml:"admin-uid" default:"0"`
}

// AppSettings 应用设置
type AppSettings struct {
	DefaultPageSize int `yaml:"default-page-size" default:"10"`
	MaxPageSize     int `yaml:"max-page-size" default:"100"`
	// DefaultContextTimeout 请求上下文超时（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`

	// AppendMaxRetries 追加内容版本冲突最大重试次数
	AppendMaxRetries int `yaml:"append-max-retries" default:"3"`
	// ShareResolveLimit 分享时并发解析用户名的上限
	ShareResolveLimit int `yaml:"share-resolve-limit" default:"8"`

	// HistoryCleanupInterval 孤立历史清理间隔
	HistoryCleanupInterval string `yaml:"history-cleanup-interval" default:"1h"`
	// HistoryCleanupCron 设置后使用 cron 表达式调度清理
	HistoryCleanupCron string `yaml:"history-cleanup-cron"`
	// WriteQueueStatsInterval 写队列统计日志间隔，0 关闭
	WriteQueueStatsInterval string `yaml:"write-queue-stats-interval" default:"5m"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"8"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"64"`

	// Write Queue 配置
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
	WriteQueueIdleTime string `yaml:"write-queue-idle-time" default:"10m"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称
	Header string `yaml:"header" default:"X-Trace-ID"`
	// Jaeger 为空时只生成 trace id，设置 agent 地址后上报 jaeger
	JaegerAgent string `yaml:"jaeger-agent"`
	// ServiceName jaeger 服务名
	ServiceName string `yaml:"service-name" default:"note-share-service"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
	// Rules 路由 -> 每秒令牌数
	Rules []RateLimitRule `yaml:"rules"`
}

// RateLimitRule 单条限流规则
type RateLimitRule struct {
	Path     string `yaml:"path"`
	Interval string `yaml:"interval" default:"1s"`
	Capacity int64  `yaml:"capacity" default:"10"`
	Quantum  int64  `yaml:"quantum" default:"10"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	c, err := ParseConfig(file)
	if err != nil {
		return nil, realpath, err
	}
	c.File = realpath
	return c, realpath, nil
}

// ParseConfig 解析 YAML 配置并填充默认值
func ParseConfig(data []byte) (*AppConfig, error) {
	c := new(AppConfig)

	// 先填充默认值，YAML 中缺失或为空的字段保留默认值
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}

	// 显式配置为 false 的布尔项保持不变
	return c, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	if err := os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// GetDatabaseConfig 转换为 dao.Config
func (c *AppConfig) GetDatabaseConfig() dao.Config {
	d := c.Database
	return dao.Config{
		Type:            d.Type,
		Path:            d.Path,
		UserName:        d.UserName,
		Password:        d.Password,
		Host:            d.Host,
		Port:            d.Port,
		Name:            d.Name,
		TablePrefix:     d.TablePrefix,
		Charset:         d.Charset,
		ParseTime:       d.ParseTime,
		SSLMode:         d.SSLMode,
		Replicas:        d.Replicas,
		AutoMigrate:     d.AutoMigrate,
		MaxIdleConns:    d.MaxIdleConns,
		MaxOpenConns:    d.MaxOpenConns,
		ConnMaxLifetime: util.MustParseDuration(d.ConnMaxLifetime, 30*time.Minute),
		ConnMaxIdleTime: util.MustParseDuration(d.ConnMaxIdleTime, 10*time.Minute),
		Debug:           c.Server.RunMode == "debug",
		Tracing:         c.Tracer.Enabled && c.Tracer.JaegerAgent != "",
		SlowThreshold:   util.MustParseDuration(d.SlowThreshold, 200*time.Millisecond),
	}
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()

	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}

	return cfg
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()

	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	cfg.WriteTimeout = util.MustParseDuration(c.App.WriteQueueTimeout, cfg.WriteTimeout)
	cfg.IdleTimeout = util.MustParseDuration(c.App.WriteQueueIdleTime, cfg.IdleTimeout)

	return cfg
}

// GetTokenExpiry 获取 Token 过期时间
func (c *AppConfig) GetTokenExpiry() time.Duration {
	return util.MustParseDuration(c.Security.TokenExpiry, 7*24*time.Hour)
}

// GetHistoryCleanupInterval 获取孤立历史清理间隔
func (c *AppConfig) GetHistoryCleanupInterval() time.Duration {
	return util.MustParseDuration(c.App.HistoryCleanupInterval, time.Hour)
}

// GetWriteQueueStatsInterval 为 0 时关闭统计任务
func (c *AppConfig) GetWriteQueueStatsInterval() time.Duration {
	return util.MustParseDuration(c.App.WriteQueueStatsInterval, 0)
}

// GetPaginationConfig 获取分页配置
func (c *AppConfig) GetPaginationConfig() pkgapp.PaginationConfig {
	cfg := pkgapp.DefaultPaginationConfig
	if c.App.DefaultPageSize > 0 {
		cfg.DefaultPageSize = c.App.DefaultPageSize
	}
	if c.App.MaxPageSize > 0 {
		cfg.MaxPageSize = c.App.MaxPageSize
	}
	return cfg
}

// GetContextTimeout 获取请求超时
func (c *AppConfig) GetContextTimeout() time.Duration {
	if c.App.DefaultContextTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.App.DefaultContextTimeout) * time.Second
}

// GetBucketRules 转换限流规则，未配置时限制登录与注册
func (c *AppConfig) GetBucketRules() []limiter.BucketRule {
	if !c.RateLimit.Enabled {
		return nil
	}
	rules := c.RateLimit.Rules
	if len(rules) == 0 {
		rules = []RateLimitRule{
			{Path: "/api/user/login", Interval: "1s", Capacity: 10, Quantum: 10},
			{Path: "/api/user/signup", Interval: "1s", Capacity: 5, Quantum: 5},
		}
	}

	out := make([]limiter.BucketRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, limiter.BucketRule{
			Key:          r.Path,
			FillInterval: util.MustParseDuration(r.Interval, time.Second),
			Capacity:     r.Capacity,
			Quantum:      r.Quantum,
		})
	}
	return out
}
