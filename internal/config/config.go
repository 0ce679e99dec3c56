package config

import (
	"os"
	"strings"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode      Mode
	HTTPAddr  string
	PublicURL string

	// Base URL of the external H5P content server (editor/player host).
	H5PServerURL string

	DBDriver string
	DBDSN    string

	// SiteID tags audit events; useful when several bridges share a DB.
	SiteID string

	// Shared secret the content server must echo in X-Webhook-Secret.
	// Empty disables the check.
	WebhookSecret string

	EnableAdminAPI bool
	AdminUser      string
	AdminPassHash  string // bcrypt
	AuthHMACSecret string

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":5000"
	}
	pub := envOr("PUBLIC_URL", "http://localhost:5000")
	return Config{
		Mode:         mode,
		HTTPAddr:     addr,
		PublicURL:    strings.TrimSuffix(pub, "/"),
		H5PServerURL: strings.TrimSuffix(envOr("H5P_SERVER_URL", "http://localhost:3000"), "/"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		SiteID: envOr("SITE_ID", "local"),

		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),

		EnableAdminAPI: envBool("ENABLE_ADMIN_API", false),
		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  os.Getenv("ADMIN_PASS_HASH"),
		AuthHMACSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://bridge.mindengage.ai"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
