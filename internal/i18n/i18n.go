package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言环境
const (
	LocaleEnUS = "en-US"
	LocaleZhCN = "zh-CN"
)

// DefaultLocale 默认语言环境
const DefaultLocale = LocaleEnUS

var catalogs = map[string]map[string]string{
	LocaleEnUS: enUS,
	LocaleZhCN: zhCN,
}

// ResolveLocale 解析请求语言环境：?lang= 优先，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := normalizeLocale(c.Query("lang")); lang != "" {
		return lang
	}
	accept := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(accept, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if lang := normalizeLocale(tag); lang != "" {
			return lang
		}
	}
	return DefaultLocale
}

func normalizeLocale(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	lower := strings.ToLower(tag)
	switch {
	case strings.HasPrefix(lower, "zh"):
		return LocaleZhCN
	case strings.HasPrefix(lower, "en"):
		return LocaleEnUS
	}
	return ""
}

// T 翻译指定 key，缺失时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if catalog, ok := catalogs[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if locale != DefaultLocale {
		if msg, ok := catalogs[DefaultLocale][key]; ok {
			return msg
		}
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
