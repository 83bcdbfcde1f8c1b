package booking

import (
	"errors"
	"math"
	"testing"
)

func TestComputeQuoteBasic(t *testing.T) {
	quote, err := ComputeQuote(50, 2, 0.10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if quote.Subtotal != 100.00 {
		t.Errorf("subtotal: got %v, want 100.00", quote.Subtotal)
	}
	if quote.ServiceFee != 10.00 {
		t.Errorf("service fee: got %v, want 10.00", quote.ServiceFee)
	}
	if quote.Total != 110.00 {
		t.Errorf("total: got %v, want 110.00", quote.Total)
	}
}

func TestComputeQuoteRoundsHalfUp(t *testing.T) {
	// 19.99 * 3 = 59.97, fee 5.997 -> 6.00
	quote, err := ComputeQuote(19.99, 3, 0.10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if quote.Subtotal != 59.97 {
		t.Errorf("subtotal: got %v, want 59.97", quote.Subtotal)
	}
	if quote.ServiceFee != 6.00 {
		t.Errorf("service fee: got %v, want 6.00", quote.ServiceFee)
	}
	if quote.Total != 65.97 {
		t.Errorf("total: got %v, want 65.97", quote.Total)
	}
}

func TestComputeQuoteFeeIdentity(t *testing.T) {
	rates := []float64{0, 25, 49.50, 120.75, 999.99}
	hourOptions := []int{1, 2, 4, 8}

	for _, rate := range rates {
		for _, hours := range hourOptions {
			quote, err := ComputeQuote(rate, hours, 0.10)
			if err != nil {
				t.Fatalf("rate=%v hours=%d: unexpected err: %v", rate, hours, err)
			}
			if math.Abs(quote.Total-(quote.Subtotal+quote.ServiceFee)) > 1e-9 {
				t.Errorf("rate=%v hours=%d: total %v != subtotal %v + fee %v",
					rate, hours, quote.Total, quote.Subtotal, quote.ServiceFee)
			}
			wantFee := roundToCents(quote.Subtotal * 0.10)
			if quote.ServiceFee != wantFee {
				t.Errorf("rate=%v hours=%d: fee %v, want %v", rate, hours, quote.ServiceFee, wantFee)
			}
		}
	}
}

func TestComputeQuoteInvalidInputs(t *testing.T) {
	tests := []struct {
		name  string
		rate  float64
		hours int
	}{
		{name: "negative rate", rate: -1, hours: 2},
		{name: "zero hours", rate: 50, hours: 0},
		{name: "negative hours", rate: 50, hours: -4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeQuote(tc.rate, tc.hours, 0.10)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestComputeQuoteZeroRate(t *testing.T) {
	quote, err := ComputeQuote(0, 2, 0.10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if quote.Total != 0 {
		t.Errorf("total: got %v, want 0", quote.Total)
	}
}
