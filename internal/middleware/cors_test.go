package middleware

import (
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"*"}},
		{"*", []string{"*"}},
		{" , ", []string{"*"}},
		{"https://a.test/, https://b.test", []string{"https://a.test", "https://b.test"}},
		{"https://a.test,*", []string{"*"}},
	}
	for _, tt := range tests {
		if got := parseOrigins(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseOrigins(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewCORS_ExposesRateLimitHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(NewCORS("https://app.test"))
	app.Get("/", func(c fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://app.test")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.test" {
		t.Errorf("Allow-Origin = %q, want https://app.test", got)
	}
	exposed := resp.Header.Get("Access-Control-Expose-Headers")
	for _, h := range []string{HeaderRateLimitRemaining, RequestIDHeader} {
		if !strings.Contains(strings.ToLower(exposed), strings.ToLower(h)) {
			t.Errorf("Expose-Headers %q missing %s", exposed, h)
		}
	}
}
