package greeks

import (
	"math"
	"testing"
)

func TestComputeATMCall(t *testing.T) {
	// ATM call, 30 days, 25% vol: delta near 0.5, positive gamma/vega,
	// negative theta.
	g := Compute(true, 100, 100, 30.0/365.0, 0.25)

	if g.Delta < 0.45 || g.Delta > 0.60 {
		t.Errorf("ATM call delta = %v, want ~0.5", g.Delta)
	}
	if g.Gamma <= 0 {
		t.Errorf("gamma = %v, want > 0", g.Gamma)
	}
	if g.Theta >= 0 {
		t.Errorf("theta = %v, want < 0", g.Theta)
	}
	if g.Vega <= 0 {
		t.Errorf("vega = %v, want > 0", g.Vega)
	}
}

func TestComputePutCallDeltaParity(t *testing.T) {
	call := Compute(true, 100, 100, 30.0/365.0, 0.25)
	put := Compute(false, 100, 100, 30.0/365.0, 0.25)

	if math.Abs((call.Delta-put.Delta)-1) > 0.01 {
		t.Errorf("delta parity: call %v - put %v should be ~1", call.Delta, put.Delta)
	}
	if call.Gamma != put.Gamma {
		t.Errorf("gamma should match for call/put: %v vs %v", call.Gamma, put.Gamma)
	}
	if call.Vega != put.Vega {
		t.Errorf("vega should match for call/put: %v vs %v", call.Vega, put.Vega)
	}
}

func TestComputeDegenerateInputs(t *testing.T) {
	zero := Greeks{}
	for _, g := range []Greeks{
		Compute(true, 100, 100, 0, 0.25),
		Compute(true, 100, 100, 0.1, 0),
		Compute(true, 0, 100, 0.1, 0.25),
		Compute(true, 100, 0, 0.1, 0.25),
	} {
		if g != zero {
			t.Errorf("degenerate input returned %+v, want zeroed Greeks", g)
		}
	}
}

func TestScalpScoreCaps(t *testing.T) {
	// Everything maxed: 50 + 25 - 0 + 15 = 90.
	if got := ScalpScore(1.0, 100, 0, 0.5); got != 90 {
		t.Errorf("maxed scalp score = %v, want 90", got)
	}
	// Wide spread floors the score at zero.
	if got := ScalpScore(0.001, 0, 50, 0.05); got != 0 {
		t.Errorf("floored scalp score = %v, want 0", got)
	}
}

func TestScalpScorePrefersATM(t *testing.T) {
	atm := ScalpScore(0.01, 1, 2, 0.5)
	wing := ScalpScore(0.01, 1, 2, 0.1)
	if atm <= wing {
		t.Errorf("ATM delta should outscore a wing delta: %v vs %v", atm, wing)
	}
}

func TestReversal(t *testing.T) {
	// Call 1 point below the day high with delta 0.5: half the move, per
	// 100 shares.
	profit, pct := Reversal(true, 100, 101, 99, 0.5, 2.00)
	if profit != 50 {
		t.Errorf("call reversal profit = %v, want 50", profit)
	}
	if pct != 25 {
		t.Errorf("call reversal pct = %v, want 25", pct)
	}

	// Put above the day low.
	profit, _ = Reversal(false, 100, 101, 98, -0.4, 2.00)
	if profit != 80 {
		t.Errorf("put reversal profit = %v, want 80", profit)
	}

	// Already at the extreme: nothing to recover.
	if profit, pct := Reversal(true, 101, 101, 99, 0.5, 2.00); profit != 0 || pct != 0 {
		t.Errorf("no-move reversal = (%v, %v), want zeros", profit, pct)
	}
}
