package domain

// DurationTier is a coarse consultation length category. The shortest tier
// is free (once per customer); paid tiers are priced from the catalog.
type DurationTier string

const (
	TierShort  DurationTier = "5-10"
	TierMedium DurationTier = "10-20"
	TierLong   DurationTier = "20+"
)

// IsValid reports whether the tier is one of the known values
func (t DurationTier) IsValid() bool {
	switch t {
	case TierShort, TierMedium, TierLong:
		return true
	}
	return false
}

// IsFree reports whether the tier is the free one
func (t DurationTier) IsFree() bool {
	return t == TierShort
}

// ServiceCatalogEntry describes a consultation offering. Static reference
// data: it drives both the slot duration and the price.
type ServiceCatalogEntry struct {
	ID              string
	Name            string
	DurationMinutes int
	BasePriceRupees int64
	DiscountPercent int
}

// serviceCatalog is the fixed set of offerings
var serviceCatalog = map[string]ServiceCatalogEntry{
	"vedic-consultation": {
		ID:              "vedic-consultation",
		Name:            "Vedic Astrology Consultation",
		DurationMinutes: 30,
		BasePriceRupees: 1500,
		DiscountPercent: 0,
	},
	"kundali-analysis": {
		ID:              "kundali-analysis",
		Name:            "Kundali Analysis",
		DurationMinutes: 45,
		BasePriceRupees: 2100,
		DiscountPercent: 0,
	},
	"matchmaking": {
		ID:              "matchmaking",
		Name:            "Kundali Matching",
		DurationMinutes: 45,
		BasePriceRupees: 2500,
		DiscountPercent: 10,
	},
	"gemstone-recommendation": {
		ID:              "gemstone-recommendation",
		Name:            "Gemstone Recommendation",
		DurationMinutes: 20,
		BasePriceRupees: 1100,
		DiscountPercent: 0,
	},
	"vastu-consultation": {
		ID:              "vastu-consultation",
		Name:            "Vastu Consultation",
		DurationMinutes: 60,
		BasePriceRupees: 3000,
		DiscountPercent: 15,
	},
}

// ServiceByID looks up a catalog entry
func ServiceByID(id string) (ServiceCatalogEntry, bool) {
	entry, ok := serviceCatalog[id]
	return entry, ok
}
