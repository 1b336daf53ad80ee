package catalysts

import (
	"katmarket-backend/internal/domain"
)

// ComputedEntry is one catalyst with its current metal content and value,
// either derived from weight x ppm and the price settings or copied from a
// manual override. Listing creation copies weight_g, pt_g, pd_g, rh_g,
// total_price and is_override verbatim onto new listings.
type ComputedEntry struct {
	CatalystID string  `json:"catalyst_id"`
	Name       string  `json:"name"`
	AddInfo    string  `json:"add_info"`
	WeightG    float64 `json:"weight_g"`
	PtG        float64 `json:"pt_g"`
	PdG        float64 `json:"pd_g"`
	RhG        float64 `json:"rh_g"`
	TotalPrice float64 `json:"total_price"`
	IsOverride bool    `json:"is_override"`
}

// ppm is grams of metal per million grams of substrate.
const ppmDivisor = 1_000_000

func metalGrams(weightG, ppm float64) float64 {
	return weightG * ppm / ppmDivisor
}

// ComputeEntry derives one entry from a catalyst record and a settings
// snapshot. An override replaces all derived values and is never blended
// with the derivation. Pure: no I/O, no mutation of its inputs.
func ComputeEntry(r domain.Catalyst, settings domain.PriceSettings) ComputedEntry {
	e := ComputedEntry{
		CatalystID: r.CatalystID,
		Name:       r.Name,
	}
	if r.AddInfo != nil {
		e.AddInfo = *r.AddInfo
	}

	if o := r.Override; o != nil {
		e.WeightG = o.WeightG
		e.PtG = o.PtG
		e.PdG = o.PdG
		e.RhG = o.RhG
		e.TotalPrice = o.TotalPrice
		e.IsOverride = true
		return e
	}

	e.WeightG = r.CeramicWeightG
	e.PtG = metalGrams(r.CeramicWeightG, r.PtPpm)
	e.PdG = metalGrams(r.CeramicWeightG, r.PdPpm)
	e.RhG = metalGrams(r.CeramicWeightG, r.RhPpm)
	e.TotalPrice = e.PtG*settings.PricePerGPt + e.PdG*settings.PricePerGPd + e.RhG*settings.PricePerGRh
	return e
}

// ComputeEntries produces one ComputedEntry per catalyst record, in input
// order. Callers pass a settings snapshot; the function never reads shared
// state, so concurrent calls are safe.
func ComputeEntries(records []domain.Catalyst, settings domain.PriceSettings) []ComputedEntry {
	entries := make([]ComputedEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, ComputeEntry(r, settings))
	}
	return entries
}
