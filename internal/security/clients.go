package security

// In-memory client registry (replace with DB/config later)
type Client struct {
	ID      string
	Secret  string
	Perms   []string // e.g. {"orders.read","orders.write"}
	Enabled bool
}

var Clients = map[string]Client{
	"storefront-web": {
		ID:      "storefront-web",
		Secret:  "storefront-secret",
		Perms:   []string{"cart.read", "cart.write", "orders.read", "orders.write"},
		Enabled: true,
	},
	"ops-console": {
		ID:      "ops-console",
		Secret:  "ops-secret",
		Perms:   []string{"orders.read", "orders.admin"},
		Enabled: true,
	},
	"svc-reviews": {
		ID:      "svc-reviews",
		Secret:  "reviews-secret",
		Perms:   []string{"events.write"},
		Enabled: true,
	},
	"svc-analytics": {
		ID:      "svc-analytics",
		Secret:  "ana-secret",
		Perms:   []string{"orders.read"},
		Enabled: true,
	},
}
