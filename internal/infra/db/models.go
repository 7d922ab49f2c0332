package db

import "time"

// Rows are written by the dashboard and billing services; this gateway
// only reads them.

type AccountModel struct {
	ID                 string `gorm:"type:uuid;primaryKey"`
	LicenseKey         string `gorm:"uniqueIndex;not null"`
	Tier               string `gorm:"not null"`
	SubscriptionStatus string `gorm:"not null"`
	CurrentPeriodEnd   *time.Time
	DomainLimit        int       `gorm:"not null;default:-1"`
	BrandingEnabled    bool      `gorm:"not null;default:true"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

func (AccountModel) TableName() string { return "accounts" }

type WidgetModel struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	PublicKey      string    `gorm:"uniqueIndex;not null"`
	AccountID      string    `gorm:"type:uuid;index;not null"`
	Status         string    `gorm:"not null"`
	WidgetType     string    `gorm:"not null"`
	AllowedDomains []byte    `gorm:"type:jsonb;not null"`
	Config         []byte    `gorm:"type:jsonb"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (WidgetModel) TableName() string { return "widgets" }
