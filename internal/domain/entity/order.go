package entity

import (
	"errors"
	"time"
)

var ErrAlreadyPaid = errors.New("order is already paid")

// ListingRef is the listing snapshot captured at order time. The listing
// itself may be deleted or re-priced afterwards; the order keeps what the
// buyer agreed to.
type ListingRef struct {
	ListingID   string  `bson:"listing_id" json:"listingId"`
	BookName    string  `bson:"book_name" json:"bookName"`
	ResalePrice float64 `bson:"resale_price" json:"resalePrice"`
	SellerEmail string  `bson:"seller_email" json:"sellerEmail"`
}

// Order is a buyer's claim against a listing. Payment transitions
// false -> true exactly once; there is no refund path.
type Order struct {
	ID         string     `bson:"_id,omitempty" json:"id,omitempty"`
	BuyerEmail string     `bson:"buyer_email" json:"buyerEmail"`
	Listing    ListingRef `bson:"listing" json:"listing"`
	Payment    bool       `bson:"payment" json:"payment"`
	CreatedAt  time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updatedAt"`
	PaidAt     *time.Time `bson:"paid_at,omitempty" json:"paidAt,omitempty"`
}

func NewOrder(buyerEmail string, ref ListingRef) (*Order, error) {
	if buyerEmail == "" {
		return nil, errors.New("buyer email cannot be empty")
	}
	if ref.ListingID == "" {
		return nil, errors.New("order must reference a listing")
	}
	now := time.Now().UTC()
	return &Order{
		BuyerEmail: buyerEmail,
		Listing:    ref,
		Payment:    false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (o *Order) MarkPaid() error {
	if o.Payment {
		return ErrAlreadyPaid
	}
	now := time.Now().UTC()
	o.Payment = true
	o.PaidAt = &now
	o.UpdatedAt = now
	return nil
}
