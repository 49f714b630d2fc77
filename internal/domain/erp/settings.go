package erp

import (
	"context"
	"time"
)

// AmazonSettings is the singleton integration configuration record. It is
// read-only to the sync procedure and mutated only by an administrator, so a
// pass always loads it fresh instead of caching credentials.
type AmazonSettings struct {
	ID              uint   `gorm:"primaryKey"`
	Enabled         bool   `gorm:"column:enabled"`
	RefreshToken    string `gorm:"column:refresh_token"`
	LWAClientID     string `gorm:"column:lwa_client_id"`
	LWAClientSecret string `gorm:"column:lwa_client_secret"`
	Endpoint        string `gorm:"column:endpoint"`
	MarketplaceID   string `gorm:"column:marketplace_id"`
	SalesPerson     string `gorm:"column:sales_person"`
	UpdatedAt       time.Time
}

// TableName returns the table name for AmazonSettings
func (AmazonSettings) TableName() string {
	return "amazon_settings"
}

// SettingsRepository provides access to the Amazon Settings singleton
type SettingsRepository interface {
	// Get returns the settings record, or shared.ErrNotFound when the
	// integration has never been configured.
	Get(ctx context.Context) (*AmazonSettings, error)
}
