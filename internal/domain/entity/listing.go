package entity

import (
	"errors"
	"fmt"
	"time"
)

type ListingStatus string

const (
	StatusAvailable ListingStatus = "available"
	StatusReserved  ListingStatus = "reserved"
	StatusSold      ListingStatus = "sold"
	StatusWithdrawn ListingStatus = "withdrawn"
)

func ParseListingStatus(s string) (ListingStatus, error) {
	switch ListingStatus(s) {
	case StatusAvailable, StatusReserved, StatusSold, StatusWithdrawn:
		return ListingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown listing status %q", s)
	}
}

// Listing is a seller's book offering. AddedBy references the seller by
// email and CategoryID references a category; both may dangle if the
// referenced record is deleted.
type Listing struct {
	ID            string        `bson:"_id,omitempty" json:"id,omitempty"`
	AddedBy       string        `bson:"added_by" json:"addedBy"`
	CategoryID    string        `bson:"category_id" json:"categoryId"`
	BookName      string        `bson:"book_name" json:"bookName"`
	Description   string        `bson:"description,omitempty" json:"description,omitempty"`
	OriginalPrice float64       `bson:"original_price,omitempty" json:"originalPrice,omitempty"`
	ResalePrice   float64       `bson:"resale_price" json:"resalePrice"`
	YearsOfUse    int           `bson:"years_of_use,omitempty" json:"yearsOfUse,omitempty"`
	Location      string        `bson:"location,omitempty" json:"location,omitempty"`
	PhotoURLs     []string      `bson:"photo_urls,omitempty" json:"photoUrls,omitempty"`
	Status        ListingStatus `bson:"status" json:"status"`
	Advertise     bool          `bson:"advertise" json:"advertise"`
	CreatedAt     time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updatedAt"`
}

func NewListing(addedBy, categoryID, bookName string, resalePrice float64) (*Listing, error) {
	if addedBy == "" {
		return nil, errors.New("seller email cannot be empty")
	}
	if bookName == "" {
		return nil, errors.New("book name cannot be empty")
	}
	if resalePrice < 0 {
		return nil, errors.New("resale price cannot be negative")
	}
	now := time.Now().UTC()
	return &Listing{
		AddedBy:     addedBy,
		CategoryID:  categoryID,
		BookName:    bookName,
		ResalePrice: resalePrice,
		Status:      StatusAvailable,
		Advertise:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsFeatured reports whether the listing belongs in the featured query.
// Advertise alone is not enough: a sold listing keeps its flag but stops
// being surfaced.
func (l *Listing) IsFeatured() bool {
	return l.Advertise && l.Status == StatusAvailable
}

func (l *Listing) IsOwnedBy(email string) bool {
	return l.AddedBy == email
}

// UpdateStatus applies the listing state machine. Withdrawn and sold
// listings can return to available (a sale can fall through), sold cannot
// go straight to reserved.
func (l *Listing) UpdateStatus(newStatus ListingStatus) error {
	if l.Status == newStatus {
		return nil
	}
	validTransitions := map[ListingStatus][]ListingStatus{
		StatusAvailable: {StatusReserved, StatusSold, StatusWithdrawn},
		StatusReserved:  {StatusAvailable, StatusSold, StatusWithdrawn},
		StatusSold:      {StatusAvailable},
		StatusWithdrawn: {StatusAvailable},
	}
	allowed, ok := validTransitions[l.Status]
	if !ok {
		return fmt.Errorf("cannot transition from unknown status %s", l.Status)
	}
	for _, s := range allowed {
		if s == newStatus {
			l.Status = newStatus
			l.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid status transition from %s to %s", l.Status, newStatus)
}

func (l *Listing) SetAdvertise(flag bool) {
	l.Advertise = flag
	l.UpdatedAt = time.Now().UTC()
}
