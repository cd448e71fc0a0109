package cache

import (
	"context"
	"testing"
	"time"

	"github.com/bimakw/arbiscan/internal/config"
	"github.com/bimakw/arbiscan/internal/domain/entities"
)

func TestInMemoryCacheSetGetPair(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()
	pair := &entities.Pair{}

	if err := c.SetPair(ctx, "k", pair, time.Minute); err != nil {
		t.Fatalf("SetPair() error = %v", err)
	}
	got, err := c.GetPair(ctx, "k")
	if err != nil {
		t.Fatalf("GetPair() error = %v", err)
	}
	if got != pair {
		t.Errorf("GetPair() returned a different pair than was set")
	}
}

func TestInMemoryCacheGetPairMiss(t *testing.T) {
	c := NewInMemoryCache()
	got, err := c.GetPair(context.Background(), "missing")
	if err != nil || got != nil {
		t.Errorf("GetPair() on a missing key = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestInMemoryCacheGetPairExpires(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()
	pair := &entities.Pair{}

	if err := c.SetPair(ctx, "k", pair, -time.Second); err != nil {
		t.Fatalf("SetPair() error = %v", err)
	}
	got, err := c.GetPair(ctx, "k")
	if err != nil || got != nil {
		t.Errorf("GetPair() on an expired entry = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestInMemoryCacheSetGetPrice(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	if err := c.SetPrice(ctx, "eth", "3000.50", time.Minute); err != nil {
		t.Fatalf("SetPrice() error = %v", err)
	}
	got, err := c.GetPrice(ctx, "eth")
	if err != nil || got != "3000.50" {
		t.Errorf("GetPrice() = (%q, %v), want (3000.50, nil)", got, err)
	}
}

func TestInMemoryCacheDelete(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	_ = c.SetPair(ctx, "k", &entities.Pair{}, time.Minute)
	_ = c.SetPrice(ctx, "k", "1", time.Minute)

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if got, _ := c.GetPair(ctx, "k"); got != nil {
		t.Error("Delete() did not remove the cached pair")
	}
	if got, _ := c.GetPrice(ctx, "k"); got != "" {
		t.Error("Delete() did not remove the cached price")
	}
}

func TestPairCacheKeyScopedByChainAndDex(t *testing.T) {
	a := PairCacheKey(config.Ethereum, entities.DEXUniswapV3, "0xabc", "0xdef")
	b := PairCacheKey(config.Polygon, entities.DEXUniswapV3, "0xabc", "0xdef")
	if a == b {
		t.Errorf("PairCacheKey() collided across chains: %q == %q", a, b)
	}
}

func TestPriceCacheKeyAndQuoteCacheKey(t *testing.T) {
	if got := PriceCacheKey("ETH"); got != "price:ETH" {
		t.Errorf("PriceCacheKey() = %q, want price:ETH", got)
	}
	if got := QuoteCacheKey("binance", "BTCUSDT"); got != "quote:binance:BTCUSDT" {
		t.Errorf("QuoteCacheKey() = %q, want quote:binance:BTCUSDT", got)
	}
}
