package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRealIPAndPrivateBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name    string
		headers map[string]string
		ip      string
		bypass  bool
	}{
		{"cloudflare", map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "10.0.0.1"}, "203.0.113.7", false},
		{"left-most forwarded hop", map[string]string{"X-Forwarded-For": "10.1.2.3, 198.51.100.1"}, "10.1.2.3", true},
		{"garbage header skipped", map[string]string{"X-Real-IP": "not-an-ip", "X-Forwarded-For": "::ffff:192.168.1.9"}, "192.168.1.9", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ip string
			var bypass bool
			r := gin.New()
			r.Use(RealIP())
			r.GET("/", func(c *gin.Context) {
				ip = c.GetString("real_ip")
				bypass = AllowPrivateIP()(c)
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)
			if ip != tt.ip || bypass != tt.bypass {
				t.Fatalf("got ip=%q bypass=%v", ip, bypass)
			}
		})
	}
}
