package cex

import "testing"

func TestSymbolVariantsOrder(t *testing.T) {
	got := SymbolVariants("btc", "usdt")
	want := []string{"BTCUSDT", "BTC-USDT", "BTC/USDT", "BTC_USDT", "BTCUSD"}

	if len(got) != len(want) {
		t.Fatalf("SymbolVariants() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SymbolVariants()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSymbolVariantsNonUSDTQuoteSkipsUSDAlias(t *testing.T) {
	got := SymbolVariants("eth", "btc")
	for _, v := range got {
		if v == "ETHUSD" {
			t.Errorf("SymbolVariants(eth, btc) unexpectedly included a USD alias: %v", got)
		}
	}
	if len(got) != 4 {
		t.Errorf("SymbolVariants(eth, btc) len = %d, want 4", len(got))
	}
}

func TestSymbolVariantsUppercasesInput(t *testing.T) {
	got := SymbolVariants("Eth", "Usdc")
	if got[0] != "ETHUSDC" {
		t.Errorf("SymbolVariants() did not uppercase input, got %q", got[0])
	}
}
