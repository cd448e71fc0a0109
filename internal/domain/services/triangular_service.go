package services

import (
	"time"

	"github.com/bimakw/arbiscan/internal/config"
	"github.com/bimakw/arbiscan/internal/domain/entities"
)

// minTriangularReturn is the minimum cycle return above 1.0 required to
// emit a triangular opportunity (SPEC_FULL.md §4.9).
const minTriangularReturn = 0.001 // 0.1%

// TriangularService finds three-leg cycles through the fixed hub set on a
// single venue's order book, using top-of-book quotes only.
type TriangularService struct{}

// NewTriangularService builds a stateless triangular scanner.
func NewTriangularService() *TriangularService {
	return &TriangularService{}
}

// Scan groups quotes by venue and, for each non-hub base and each
// unordered hub pair, evaluates the forward and reverse three-leg cycle.
func (s *TriangularService) Scan(quotes []entities.Quote, tradeSizeUSD float64, now time.Time) []entities.TriangularOpportunity {
	byVenue := make(map[string]map[string]entities.Quote)
	for _, q := range quotes {
		if q.Kind != entities.KindCEX {
			continue
		}
		market := byVenue[q.Venue]
		if market == nil {
			market = make(map[string]entities.Quote)
			byVenue[q.Venue] = market
		}
		market[symbolKey(q.Base, q.Quote)] = q
	}

	var out []entities.TriangularOpportunity
	for venue, market := range byVenue {
		out = append(out, s.scanVenue(venue, market, tradeSizeUSD, now)...)
	}
	return out
}

func (s *TriangularService) scanVenue(venue string, market map[string]entities.Quote, tradeSizeUSD float64, now time.Time) []entities.TriangularOpportunity {
	var out []entities.TriangularOpportunity
	bases := nonHubBases(market)

	for _, base := range bases {
		for i := 0; i < len(entities.TriangularHubs); i++ {
			for j := i + 1; j < len(entities.TriangularHubs); j++ {
				h1, h2 := entities.TriangularHubs[i], entities.TriangularHubs[j]

				baseH1, ok1 := lookupMarket(market, base, h1)
				h1H2, ok2 := lookupMarket(market, h1, h2)
				baseH2, ok3 := lookupMarket(market, base, h2)
				if !ok1 || !ok2 || !ok3 {
					continue
				}

				if opp, ok := s.evaluateForward(venue, base, h1, h2, baseH1, h1H2, baseH2, tradeSizeUSD, now); ok {
					out = append(out, opp)
				}
				if opp, ok := s.evaluateReverse(venue, base, h1, h2, baseH1, h1H2, baseH2, tradeSizeUSD, now); ok {
					out = append(out, opp)
				}
			}
		}
	}
	return out
}

// evaluateForward sells base for h1, sells h1 for h2, buys base with h2.
//
// baseH1, h1H2, and baseH2 are already normalized by lookupMarket to the
// canonical base/quote orientation named by their variable (e.g. h1H2 is
// always "1 h1 priced in h2", whether the underlying market was listed as
// h1/h2 or h2/h1). A leg that trades in the direction its pairQuote is
// already oriented in (X->Y) uses Bid; a leg trading the opposite
// direction (Y->X) uses the reciprocal of Ask. Applying the reciprocal to
// an already-normalized rate double-inverts it.
func (s *TriangularService) evaluateForward(venue, base, h1, h2 string, baseH1, h1H2, baseH2 pairQuote, tradeSizeUSD float64, now time.Time) (entities.TriangularOpportunity, bool) {
	if baseH1.Bid <= 0 || h1H2.Bid <= 0 || baseH2.Ask <= 0 {
		return entities.TriangularOpportunity{}, false
	}

	legs := [3]entities.TriangularLeg{
		{From: base, To: h1, Rate: baseH1.Bid, Venue: venue},
		{From: h1, To: h2, Rate: h1H2.Bid, Venue: venue},
		{From: h2, To: base, Rate: 1 / baseH2.Ask, Venue: venue},
	}
	return buildOpportunity(venue, legs, tradeSizeUSD, now)
}

// evaluateReverse runs the same three markets in the opposite direction:
// sells base for h2, sells h2 for h1, buys base with h1. See
// evaluateForward for the Bid-vs-reciprocal-Ask convention.
func (s *TriangularService) evaluateReverse(venue, base, h1, h2 string, baseH1, h1H2, baseH2 pairQuote, tradeSizeUSD float64, now time.Time) (entities.TriangularOpportunity, bool) {
	if baseH2.Bid <= 0 || h1H2.Ask <= 0 || baseH1.Ask <= 0 {
		return entities.TriangularOpportunity{}, false
	}

	legs := [3]entities.TriangularLeg{
		{From: base, To: h2, Rate: baseH2.Bid, Venue: venue},
		{From: h2, To: h1, Rate: 1 / h1H2.Ask, Venue: venue},
		{From: h1, To: base, Rate: 1 / baseH1.Ask, Venue: venue},
	}
	return buildOpportunity(venue, legs, tradeSizeUSD, now)
}

func buildOpportunity(venue string, legs [3]entities.TriangularLeg, tradeSizeUSD float64, now time.Time) (entities.TriangularOpportunity, bool) {
	cycleReturn := entities.ComputeCycleReturn(legs)
	if cycleReturn <= 1+minTriangularReturn {
		return entities.TriangularOpportunity{}, false
	}

	profitPercent := (cycleReturn - 1) * 100
	netProfit := tradeSizeUSD * (cycleReturn - 1)

	return entities.TriangularOpportunity{
		Venue:         venue,
		Legs:          legs,
		ProfitPercent: profitPercent,
		TradeSizeUSD:  tradeSizeUSD,
		NetProfit:     netProfit,
		Tier:          config.ProfitTierFor(netProfit),
		DetectedAt:    now,
	}, true
}

type pairQuote struct {
	Bid float64
	Ask float64
}

// lookupMarket resolves the quote for (a, b) regardless of which side the
// cached market key was keyed on, inverting bid/ask if the pair is stored
// in the opposite direction.
func lookupMarket(market map[string]entities.Quote, a, b string) (pairQuote, bool) {
	if q, ok := market[symbolKey(a, b)]; ok {
		return pairQuote{Bid: q.Bid, Ask: q.Ask}, true
	}
	if q, ok := market[symbolKey(b, a)]; ok && q.Bid > 0 && q.Ask > 0 {
		return pairQuote{Bid: 1 / q.Ask, Ask: 1 / q.Bid}, true
	}
	return pairQuote{}, false
}

func symbolKey(base, quote string) string {
	return base + "/" + quote
}

func nonHubBases(market map[string]entities.Quote) []string {
	hub := make(map[string]bool, len(entities.TriangularHubs))
	for _, h := range entities.TriangularHubs {
		hub[h] = true
	}

	seen := make(map[string]bool)
	var bases []string
	for _, q := range market {
		for _, sym := range []string{q.Base, q.Quote} {
			if hub[sym] || seen[sym] {
				continue
			}
			seen[sym] = true
			bases = append(bases, sym)
		}
	}
	return bases
}
