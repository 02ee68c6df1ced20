package hydraulics

import (
	"math"
	"testing"
)

func TestThermalLossPerMeter(t *testing.T) {
	loss := ThermalLossPerMeter(0.1, 90, 8)
	if loss <= 0 {
		t.Fatalf("Expected positive loss, got %f", loss)
	}

	// Loss scales linearly with the temperature difference
	double := ThermalLossPerMeter(0.1, 172, 8)
	if math.Abs(double-2*loss) > 1e-6 {
		t.Errorf("Expected loss to double with doubled delta-T: %f vs %f", double, 2*loss)
	}

	if ThermalLossPerMeter(0.1, 8, 8) != 0 {
		t.Error("No temperature difference should mean no loss")
	}
	if ThermalLossPerMeter(0, 90, 8) != 0 {
		t.Error("Degenerate diameter should mean no loss")
	}
}

func TestTemperatureDrop(t *testing.T) {
	drop := TemperatureDrop(0.1, 1000, 5.0, 90, 8)
	if drop <= 0 {
		t.Fatalf("Expected positive drop over 1 km, got %f", drop)
	}

	// Higher flow carries more heat, so the same loss drops less
	fast := TemperatureDrop(0.1, 1000, 50.0, 90, 8)
	if fast >= drop {
		t.Errorf("Higher flow should reduce the temperature drop: %f vs %f", fast, drop)
	}

	if TemperatureDrop(0.1, 1000, 0, 90, 8) != 0 {
		t.Error("Zero flow should yield zero drop")
	}
}

func TestThermalEfficiency(t *testing.T) {
	eff := ThermalEfficiency(100, 5000)
	if math.Abs(eff-0.95) > 1e-9 {
		t.Errorf("Expected 0.95, got %f", eff)
	}

	if ThermalEfficiency(0, 5000) != 1 {
		t.Error("Zero carried heat should report full efficiency")
	}
	if ThermalEfficiency(1, 2000000) != 0 {
		t.Error("Loss above carried heat should clamp at zero")
	}
}
