package auth

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mathnotes-io/mathnotes/internal/tier"
)

// DemoPassword unlocks every demo account.
const DemoPassword = "password"

// SubscriptionEnd is the fixed expiry given to any paid tier.
var SubscriptionEnd = time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)

type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Tier            tier.Tier  `json:"tier"`
	SubscribedUntil *time.Time `json:"subscribedUntil,omitempty"`
}

type demoAccount struct {
	user         User
	passwordHash []byte
}

func demoUsers() []User {
	until := SubscriptionEnd
	return []User{
		{ID: "1", Email: "premium@example.com", Name: "Premium User", Tier: tier.Premium, SubscribedUntil: &until},
		{ID: "2", Email: "supporter@example.com", Name: "Supporter User", Tier: tier.Supporter, SubscribedUntil: &until},
		{ID: "3", Email: "free@example.com", Name: "Free User", Tier: tier.Free},
	}
}

// newDemoAccounts builds the credential table keyed by lower-cased email.
func newDemoAccounts(cost int) (map[string]demoAccount, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return nil, err
	}
	accounts := make(map[string]demoAccount)
	for _, u := range demoUsers() {
		accounts[strings.ToLower(u.Email)] = demoAccount{user: u, passwordHash: hash}
	}
	return accounts, nil
}

func (a demoAccount) matches(password string) bool {
	return bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
}

// localPart returns the text before the first "@".
func localPart(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}

func (u User) withTier(t tier.Tier) User {
	u.Tier = t
	u.SubscribedUntil = nil
	if t != tier.Free {
		until := SubscriptionEnd
		u.SubscribedUntil = &until
	}
	return u
}
