package cex

import (
	"context"

	"github.com/bimakw/arbiscan/internal/config"
)

// Harvester periodically probes CEX venues for which (base, quote) pairs
// are actively quoted, promoting pairs with enough venue coverage into the
// scan universe (SPEC_FULL.md §4.10). The distilled source's
// harvest_all_markets walked each venue's published market list; this
// build has no bespoke market-list endpoint per venue, so it tallies
// coverage from the REST Poller's own ticker responses instead - a pair a
// venue answers for during a harvest sweep counts as "published" by that
// venue, which is the same signal the original used, just observed
// opportunistically rather than from a dedicated markets call.
type Harvester struct {
	poller *RestPoller
}

// NewHarvester builds a harvester over an existing REST poller so the two
// share one rate-limited HTTP client.
func NewHarvester(poller *RestPoller) *Harvester {
	return &Harvester{poller: poller}
}

// Harvest probes every candidate pair across every wired venue and returns
// the subset reaching config.MinVenuesForHarvest distinct venues, capped
// at maxPairs (the Scan Engine passes its universe cap, maxUniversePairs).
func (h *Harvester) Harvest(ctx context.Context, candidates []PairSpec, maxPairs int) []PairSpec {
	venueCount := make(map[PairSpec]map[string]bool)

	quotes := h.poller.FetchAll(ctx, candidates, nil)
	for _, q := range quotes {
		pair := PairSpec{Base: q.Base, Quote: q.Quote}
		if venueCount[pair] == nil {
			venueCount[pair] = make(map[string]bool)
		}
		venueCount[pair][q.Venue] = true
	}

	promoted := make([]PairSpec, 0, len(venueCount))
	for pair, venues := range venueCount {
		if len(venues) >= config.MinVenuesForHarvest {
			promoted = append(promoted, pair)
		}
	}

	if maxPairs > 0 && len(promoted) > maxPairs {
		promoted = promoted[:maxPairs]
	}
	return promoted
}
