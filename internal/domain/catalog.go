package domain

import "time"

// Category — категория каталога. Имя уникально.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Brand — бренд каталога. Имя уникально.
type Brand struct {
	ID          string
	Name        string
	Description string
	Logo        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Product — товар каталога.
type Product struct {
	ID                 string
	Name               string
	Description        string
	Price              int64
	Stock              int32
	SoldCount          int32
	DiscountPercentage int32
	// CategoryRef и BrandRef хранятся в неоднозначном представлении,
	// см. NormalizeRef.
	CategoryRef string
	BrandRef    string
	Images      []string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
