package access

import (
	"fmt"

	"github.com/mathnotes-io/mathnotes/internal/tier"
)

// Prompt is the copy shown in place of locked content.
type Prompt struct {
	Required    tier.Tier `json:"requiredTier"`
	Badge       string    `json:"badge"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Action      string    `json:"action"`
	Price       string    `json:"price,omitempty"`
	Features    []string  `json:"features,omitempty"`
	CurrentPlan string    `json:"currentPlan,omitempty"`
}

func PromptFor(v Viewer, required tier.Tier) Prompt {
	info := tier.InfoFor(required)
	p := Prompt{
		Required: info.Tier,
		Badge:    info.Badge,
		Features: info.Features,
	}

	if v.Present {
		p.Title = "Upgrade Required"
		p.Message = fmt.Sprintf("This content is exclusive to %s subscribers. Upgrade your account to unlock it.", info.Name)
		p.Action = "Upgrade to " + info.Name
		p.CurrentPlan = v.Tier.String()
	} else {
		p.Title = "Premium Content"
		p.Message = fmt.Sprintf("Sign in and subscribe to %s to access this premium content.", info.Name)
		p.Action = "Unlock Content"
	}

	if info.Tier != tier.Free {
		p.Price = "Starting at " + info.Price
	}
	return p
}
