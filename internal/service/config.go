// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

// DefaultAppendMaxRetries version conflicts tolerated by one append before it fails
// DefaultAppendMaxRetries 单次追加允许的版本冲突重试次数
const DefaultAppendMaxRetries = 3

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	User UserServiceConfig // User related config // 用户相关配置
	App  AppServiceConfig  // App related config // 应用相关配置
}

// UserServiceConfig user service configuration
// UserServiceConfig 用户服务配置
type UserServiceConfig struct {
	RegisterIsEnable bool // Whether registration is enabled // 注册是否启用
}

// AppServiceConfig app service configuration
// AppServiceConfig 应用服务配置
type AppServiceConfig struct {
	AppendMaxRetries  int // Retries after a version conflict, default 3 // 版本冲突后的重试次数，默认 3
	ShareResolveLimit int // Concurrent username lookups per share, default 8 // 分享时并发解析用户名数量，默认 8
}

func (c *AppServiceConfig) appendMaxRetries() int {
	if c == nil || c.AppendMaxRetries <= 0 {
		return DefaultAppendMaxRetries
	}
	return c.AppendMaxRetries
}

func (c *AppServiceConfig) shareResolveLimit() int {
	if c == nil || c.ShareResolveLimit <= 0 {
		return 8
	}
	return c.ShareResolveLimit
}
