package pricing

import (
	"fmt"
	"math"

	"retreatbooking/internal/domain"
)

// Round2 rounds to two decimals, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// QuotePrice applies a percentage discount to price. A discount of zero or
// less means no discount; anything above 100 is treated as 100.
func QuotePrice(price float64, discountPercentage int) float64 {
	if discountPercentage <= 0 {
		return Round2(price)
	}
	if discountPercentage > 100 {
		discountPercentage = 100
	}
	return Round2(price * (1 - float64(discountPercentage)/100))
}

// BasePrice is the undiscounted price of a stay. The room's package price
// wins; the retreat's base price is used when the room has none.
func BasePrice(room domain.RoomType, retreat domain.Retreat) float64 {
	if room.PackagePrice > 0 {
		return room.PackagePrice
	}
	return retreat.BasePrice
}

// Commission is the influencer share of a booking total.
func Commission(totalPrice float64, discountPercentage int) float64 {
	return Round2(totalPrice * float64(discountPercentage) / 100)
}

// ToMinorUnits converts an amount to minor currency units (cents).
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromMinorUnits(minor int64) float64 {
	return Round2(float64(minor) / 100)
}

// CheckAvailability verifies that a party fits both the room and the spots
// left on the date.
func CheckAvailability(date domain.RetreatDate, room domain.RoomType, requestedGuests int) error {
	if requestedGuests < 1 {
		return fmt.Errorf("number of guests must be at least 1: %w", domain.ErrValidation)
	}
	if requestedGuests > room.MaxGuests {
		return fmt.Errorf("%s sleeps at most %d: %w", room.Name, room.MaxGuests, domain.ErrCapacityExceeded)
	}
	if requestedGuests > date.Available() {
		return fmt.Errorf("%d requested, %d available: %w", requestedGuests, date.Available(), domain.ErrInsufficientInventory)
	}
	return nil
}
