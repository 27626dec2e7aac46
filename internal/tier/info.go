package tier

// Info holds the presentation data associated with a tier.
type Info struct {
	Tier     Tier     `json:"tier"`
	Name     string   `json:"name"`
	Badge    string   `json:"badge"`
	Color    string   `json:"color"`
	Price    string   `json:"price"`
	Features []string `json:"features,omitempty"`
}

// InfoFor returns the presentation data for t. Unknown values get the Free entry.
func InfoFor(t Tier) Info {
	switch t {
	case Supporter:
		return Info{
			Tier:     Supporter,
			Name:     "Supporter",
			Badge:    "heart",
			Color:    "#d4a373",
			Price:    "$5/month",
			Features: []string{"Early Access", "PDF Downloads"},
		}
	case Premium:
		return Info{
			Tier:     Premium,
			Name:     "Premium",
			Badge:    "crown",
			Color:    "#fbbf24",
			Price:    "$15/month",
			Features: []string{"1-on-1 Q&A", "Custom Problems", "Exclusive Videos"},
		}
	default:
		return Info{
			Tier:  Free,
			Name:  "Free",
			Badge: "lock",
			Color: "#9ca3af",
			Price: "$0",
		}
	}
}
