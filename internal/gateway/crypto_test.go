package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCryptoDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("vs_currency") != "usd" || q.Get("sparkline") != "true" {
			t.Fatalf("查询参数不正确: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":                          "bitcoin",
				"symbol":                      "btc",
				"name":                        "Bitcoin",
				"image":                       "https://img/btc.png",
				"current_price":               64250.5,
				"price_change_percentage_24h": -2.31,
				"market_cap":                  1.25e12,
				"total_volume":                3.2e10,
				"sparkline_in_7d":             map[string]any{"price": []float64{1, 2, 3}},
			},
			{
				"id":            "nocurve",
				"symbol":        "nc",
				"name":          "NoCurve",
				"current_price": 0.42,
			},
		})
	}))
	defer srv.Close()

	client := NewCryptoClient(testOptions(srv.URL), noopLogger())
	assets, err := client.Crypto(context.Background())
	if err != nil {
		t.Fatalf("成功响应不应报错: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("期望 2 个币种, 实际 %d", len(assets))
	}

	btc := assets[0]
	if btc.ID != "bitcoin" || btc.Symbol != "btc" {
		t.Fatalf("基础字段解码失败: %#v", btc)
	}
	if btc.PriceChangePct24h != -2.31 {
		t.Fatalf("24h 涨跌幅不正确: %f", btc.PriceChangePct24h)
	}
	if len(btc.Sparkline7d) != 3 {
		t.Fatalf("7 日走势应展开为 3 个点, 实际 %d", len(btc.Sparkline7d))
	}
	if assets[1].Sparkline7d != nil {
		t.Fatal("缺失 sparkline 应保持 nil")
	}
}

func TestCryptoHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewCryptoClient(testOptions(srv.URL), noopLogger())
	if _, err := client.Crypto(context.Background()); err == nil {
		t.Fatal("HTTP 429 应返回错误")
	}
}
