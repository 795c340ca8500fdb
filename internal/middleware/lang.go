package middleware

import (
	"strings"

	"github.com/haierkeys/note-share-service/pkg/app"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// LangWithTranslator 根据 lang 查询参数或请求头选择响应语言与校验翻译器
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string

		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		} else if s = c.GetHeader("Accept-Language"); len(s) != 0 {
			lang = strings.SplitN(s, ",", 2)[0]
		}

		lang = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lang), "-", "_"))
		c.Set(app.LangKey, lang)

		if uni != nil {
			transKey := lang
			if strings.HasPrefix(transKey, "zh") {
				transKey = "zh"
			}
			trans, found := uni.GetTranslator(transKey)
			if !found {
				trans, _ = uni.GetTranslator("en")
			}
			c.Set(app.TransKey, trans)
		}

		c.Next()
	}
}
