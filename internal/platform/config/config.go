package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ApprovalRole is one position of the purchase order approval chain: a human-readable
// label plus the role identifier of the users who may hold it. The chain order in the
// configuration is the approval order.
type ApprovalRole struct {
	Label  string
	RoleID int
}

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	AdminRoleID       int

	// ApprovalChain is the ordered list of approver roles for new purchase orders.
	// Roles without an active holder are skipped at creation time.
	ApprovalChain []ApprovalRole

	MaxManualDrafts int

	// SMTP settings for the transactional email sender.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPSender   string
	SMTPDisabled bool

	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "procurement-backend")
	viper.SetDefault("ADMIN_ROLE_ID", 1)
	// Department -> Finance -> Procurement
	viper.SetDefault("PO_APPROVAL_CHAIN", "Department:2,Finance:4,Procurement:3")
	viper.SetDefault("PO_MAX_MANUAL_DRAFTS", 10)
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_SENDER", "no-reply@edmartsystems.com")
	viper.SetDefault("SMTP_DISABLED", false)
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_DURATION: %w", err)
	}
	cfg.JWTExpiryDuration = jwtExpiry
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.AdminRoleID = viper.GetInt("ADMIN_ROLE_ID")

	chain, err := parseApprovalChain(viper.GetString("PO_APPROVAL_CHAIN"))
	if err != nil {
		return nil, fmt.Errorf("invalid PO_APPROVAL_CHAIN: %w", err)
	}
	cfg.ApprovalChain = chain

	cfg.MaxManualDrafts = viper.GetInt("PO_MAX_MANUAL_DRAFTS")

	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetInt("SMTP_PORT")
	cfg.SMTPUsername = viper.GetString("SMTP_USERNAME")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.SMTPSender = viper.GetString("SMTP_SENDER")
	cfg.SMTPDisabled = viper.GetBool("SMTP_DISABLED")
	if cfg.SMTPHost == "" && !cfg.SMTPDisabled {
		log.Println("Warning: SMTP_HOST not set. Transactional email delivery will fail and be logged.")
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}

// parseApprovalChain parses "Label:roleID,Label:roleID,..." in approval order.
func parseApprovalChain(raw string) ([]ApprovalRole, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	chain := make([]ApprovalRole, 0, len(parts))
	for _, part := range parts {
		labelAndRole := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(labelAndRole) != 2 {
			return nil, fmt.Errorf("malformed chain entry %q", part)
		}
		roleID, err := strconv.Atoi(strings.TrimSpace(labelAndRole[1]))
		if err != nil {
			return nil, fmt.Errorf("malformed role id in chain entry %q: %w", part, err)
		}
		chain = append(chain, ApprovalRole{Label: strings.TrimSpace(labelAndRole[0]), RoleID: roleID})
	}
	return chain, nil
}
