package admin

import "retreatbooking/internal/domain"

type Dashboard struct {
	TotalBookings     int64            `json:"totalBookings"`
	PendingBookings   int64            `json:"pendingBookings"`
	ConfirmedBookings int64            `json:"confirmedBookings"`
	CancelledBookings int64            `json:"cancelledBookings"`
	TotalRevenue      float64          `json:"totalRevenue"`
	TotalGuests       int64            `json:"totalGuests"`
	TotalRetreats     int64            `json:"totalRetreats"`
	RecentBookings    []domain.Booking `json:"recentBookings"`
}

type SendNotificationsResult struct {
	Message string `json:"message"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
}
