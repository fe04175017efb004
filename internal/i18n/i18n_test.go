package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newLocaleContext(t *testing.T, query, acceptLanguage string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/public/products"+query, nil)
	if acceptLanguage != "" {
		c.Request.Header.Set("Accept-Language", acceptLanguage)
	}
	return c
}

func TestResolveLocale(t *testing.T) {
	cases := []struct {
		query  string
		header string
		want   string
	}{
		{"?lang=zh-CN", "", LocaleZhCN},
		{"?lang=zh", "", LocaleZhCN},
		{"?lang=en-US", "zh-CN", LocaleEnUS},
		{"", "zh-CN,zh;q=0.9", LocaleZhCN},
		{"", "en-GB,en;q=0.8", LocaleEnUS},
		{"", "fr-FR", DefaultLocale},
		{"", "", DefaultLocale},
	}
	for _, c := range cases {
		ctx := newLocaleContext(t, c.query, c.header)
		if got := ResolveLocale(ctx); got != c.want {
			t.Errorf("query=%q header=%q: 期望 %s 实际 %s", c.query, c.header, c.want, got)
		}
	}
}

func TestTranslateFallback(t *testing.T) {
	if got := T(LocaleZhCN, "error.order_not_found"); got == "error.order_not_found" {
		t.Fatalf("中文文案缺失")
	}
	if got := T(LocaleEnUS, "error.order_not_found"); got == "error.order_not_found" {
		t.Fatalf("英文文案缺失")
	}
	// 未知键原样返回
	if got := T(LocaleEnUS, "error.nope"); got != "error.nope" {
		t.Fatalf("未知键应原样返回，实际 %s", got)
	}
	// 未知地区回落默认语言
	if T("fr-FR", "error.order_not_found") != T(DefaultLocale, "error.order_not_found") {
		t.Fatalf("未知地区应回落默认语言")
	}
}

func TestSprintf(t *testing.T) {
	got := Sprintf(LocaleEnUS, "error.rate_limited", 30)
	if got == "error.rate_limited" {
		t.Fatalf("模板缺失")
	}
	want := false
	for _, r := range got {
		if r == '3' {
			want = true
		}
	}
	if !want {
		t.Fatalf("格式化参数未生效: %s", got)
	}
}
