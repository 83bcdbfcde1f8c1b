package booking

import (
	"fmt"
	"math"
)

// Quote is the monetary breakdown for a candidate booking
type Quote struct {
	Subtotal   float64 `json:"subtotal"`
	ServiceFee float64 `json:"service_fee"`
	Total      float64 `json:"total"`
}

// ComputeQuote computes the price breakdown for a session. feeRate is the
// platform surcharge as a fraction of the subtotal (0.10 = 10%). All values
// are rounded half up to cents.
func ComputeQuote(hourlyRate float64, hours int, feeRate float64) (Quote, error) {
	if hourlyRate < 0 {
		return Quote{}, fmt.Errorf("%w: hourly rate must not be negative", ErrInvalidInput)
	}
	if hours <= 0 {
		return Quote{}, fmt.Errorf("%w: session length must be positive", ErrInvalidInput)
	}

	subtotal := roundToCents(hourlyRate * float64(hours))
	serviceFee := roundToCents(subtotal * feeRate)

	return Quote{
		Subtotal:   subtotal,
		ServiceFee: serviceFee,
		Total:      roundToCents(subtotal + serviceFee),
	}, nil
}

// roundToCents rounds half up to two decimal places
func roundToCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
