package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	tplBookingConfirmation  = "booking_confirmation.html"
	tplPaymentReceipt       = "payment_receipt.html"
	tplInfluencerCommission = "influencer_commission.html"
	tplTeacherAssignment    = "teacher_assignment.html"

	checkInTime  = "3:00 PM"
	checkOutTime = "11:00 AM"
)

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

func formatMoney(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, strings.ToUpper(currency))
}

type bookingConfirmationData struct {
	GuestName   string
	RetreatName string
	Location    string
	BookingID   int64
	StartDate   string
	EndDate     string
	CheckIn     string
	CheckOut    string
	RoomName    string
	Guests      int
	PromoCode   string
	Discount    int
	Total       string
}

type paymentReceiptData struct {
	GuestName   string
	RetreatName string
	BookingID   int64
	PaymentID   int64
	Amount      string
	PaidAt      string
	ReceiptURL  string
}

type influencerCommissionData struct {
	InfluencerName string
	GuestName      string
	RetreatName    string
	Code           string
	Total          string
	Percentage     int
	Commission     string
	BookingCount   int64
}

type teacherAssignmentData struct {
	TeacherName string
	Role        string
	RetreatName string
	Location    string
	StartDate   string
	EndDate     string
}
