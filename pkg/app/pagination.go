package app

import (
	"github.com/haierkeys/note-share-service/pkg/convert"

	"github.com/gin-gonic/gin"
)

// PaginationConfig pagination configuration // 分页配置
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultPaginationConfig default pagination configuration // 默认分页配置
var DefaultPaginationConfig = PaginationConfig{
	DefaultPageSize: 10,
	MaxPageSize:     100,
}

// paginationConfigKey gin context key for a per-router PaginationConfig
const paginationConfigKey = "pagination_config"

// SetPaginationConfig stores the configured page sizes on the request.
func SetPaginationConfig(c *gin.Context, cfg PaginationConfig) {
	c.Set(paginationConfigKey, cfg)
}

func paginationConfig(c *gin.Context) PaginationConfig {
	if v, ok := c.Get(paginationConfigKey); ok {
		if cfg, ok := v.(PaginationConfig); ok && cfg.DefaultPageSize > 0 && cfg.MaxPageSize > 0 {
			return cfg
		}
	}
	return DefaultPaginationConfig
}

func GetPage(c *gin.Context) int {
	var page int

	if s, exist := c.GetQuery("page"); exist {
		page = convert.StrTo(s).MustInt()
	}

	if page <= 0 {
		return 1
	}

	return page
}

// GetPageSize gets page size within the configured bounds
// GetPageSize 获取分页大小（受配置限制）
func GetPageSize(c *gin.Context) int {
	cfg := paginationConfig(c)

	var pageSize int
	if s, exist := c.GetQuery("pageSize"); exist {
		pageSize = convert.StrTo(s).MustInt()
	}

	if pageSize <= 0 {
		return cfg.DefaultPageSize
	}
	if pageSize > cfg.MaxPageSize {
		return cfg.MaxPageSize
	}

	return pageSize
}

func NewPager(c *gin.Context, totalRows int) *Pager {
	return &Pager{
		Page:      GetPage(c),
		PageSize:  GetPageSize(c),
		TotalRows: totalRows,
	}
}
