package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewListing_Defaults(t *testing.T) {
	listing, err := NewListing("seller@example.com", "cat-1", "Clean Code", 12.5)

	assert.NoError(t, err)
	assert.Equal(t, StatusAvailable, listing.Status)
	assert.False(t, listing.Advertise)
	assert.False(t, listing.IsFeatured())
}

func TestNewListing_Validation(t *testing.T) {
	_, err := NewListing("", "cat-1", "Clean Code", 12.5)
	assert.Error(t, err)

	_, err = NewListing("seller@example.com", "cat-1", "", 12.5)
	assert.Error(t, err)

	_, err = NewListing("seller@example.com", "cat-1", "Clean Code", -1)
	assert.Error(t, err)
}

func TestParseListingStatus(t *testing.T) {
	for _, valid := range []string{"available", "reserved", "sold", "withdrawn"} {
		status, err := ParseListingStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, ListingStatus(valid), status)
	}

	_, err := ParseListingStatus("vaporized")
	assert.Error(t, err)
}

func TestListing_UpdateStatus_Transitions(t *testing.T) {
	cases := []struct {
		from    ListingStatus
		to      ListingStatus
		allowed bool
	}{
		{StatusAvailable, StatusReserved, true},
		{StatusAvailable, StatusSold, true},
		{StatusAvailable, StatusWithdrawn, true},
		{StatusReserved, StatusAvailable, true},
		{StatusReserved, StatusSold, true},
		{StatusReserved, StatusWithdrawn, true},
		{StatusSold, StatusAvailable, true},
		{StatusSold, StatusReserved, false},
		{StatusSold, StatusWithdrawn, false},
		{StatusWithdrawn, StatusAvailable, true},
		{StatusWithdrawn, StatusReserved, false},
		{StatusWithdrawn, StatusSold, false},
	}

	for _, tc := range cases {
		listing, _ := NewListing("seller@example.com", "cat-1", "Clean Code", 12.5)
		listing.Status = tc.from

		err := listing.UpdateStatus(tc.to)
		if tc.allowed {
			assert.NoError(t, err, "transition %s -> %s should be allowed", tc.from, tc.to)
			assert.Equal(t, tc.to, listing.Status)
		} else {
			assert.Error(t, err, "transition %s -> %s should be rejected", tc.from, tc.to)
			assert.Equal(t, tc.from, listing.Status)
		}
	}
}

func TestListing_UpdateStatus_SameStatusIsNoOp(t *testing.T) {
	listing, _ := NewListing("seller@example.com", "cat-1", "Clean Code", 12.5)
	listing.Status = StatusSold

	err := listing.UpdateStatus(StatusSold)

	assert.NoError(t, err)
	assert.Equal(t, StatusSold, listing.Status)
}

func TestListing_IsFeatured_RequiresAvailable(t *testing.T) {
	listing, _ := NewListing("seller@example.com", "cat-1", "Clean Code", 12.5)
	listing.SetAdvertise(true)
	assert.True(t, listing.IsFeatured())

	listing.Status = StatusSold
	assert.True(t, listing.Advertise)
	assert.False(t, listing.IsFeatured())
}

func TestListing_IsOwnedBy(t *testing.T) {
	listing, _ := NewListing("seller@example.com", "cat-1", "Clean Code", 12.5)

	assert.True(t, listing.IsOwnedBy("seller@example.com"))
	assert.False(t, listing.IsOwnedBy("other@example.com"))
}
