package gs

import "testing"

func TestDefaultOptionsValidate(t *testing.T) {
	if err := DefaultOptions().validate(); err != nil {
		t.Fatalf("DefaultOptions().validate() = %v, want nil", err)
	}
}

func TestOptionsValidateRejectsNonPowerOfTwoVRAMSize(t *testing.T) {
	o := DefaultOptions()
	o.VRAMSize = 3 * 1024 * 1024
	if err := o.validate(); err != ErrInvalidOptions {
		t.Fatalf("validate() = %v, want ErrInvalidOptions", err)
	}
}

func TestOptionsValidateRejectsZeroVRAMSize(t *testing.T) {
	o := DefaultOptions()
	o.VRAMSize = 0
	if err := o.validate(); err != ErrInvalidOptions {
		t.Fatalf("validate() = %v, want ErrInvalidOptions", err)
	}
}

func TestOptionsValidateAcceptsEveryPowerOfTwoUpTo64MiB(t *testing.T) {
	o := DefaultOptions()
	for size := 1 << 10; size <= 64*1024*1024; size <<= 1 {
		o.VRAMSize = size
		if err := o.validate(); err != nil {
			t.Fatalf("validate() with VRAMSize=%d = %v, want nil", size, err)
		}
	}
}

func TestOptionsValidateRejectsUnrecognizedSuperSampling(t *testing.T) {
	o := DefaultOptions()
	o.SuperSampling = SuperSampling(99)
	if err := o.validate(); err != ErrInvalidOptions {
		t.Fatalf("validate() = %v, want ErrInvalidOptions", err)
	}
}

func TestSuperSamplingRates(t *testing.T) {
	cases := []struct {
		level        SuperSampling
		xLog2, yLog2 int
	}{
		{SuperSampling1x, 0, 0},
		{SuperSampling2x, 0, 1},
		{SuperSampling4x, 1, 1},
		{SuperSampling8x, 1, 2},
		{SuperSampling16x, 2, 2},
	}
	for _, c := range cases {
		x, y, ok := c.level.rates()
		if !ok || x != c.xLog2 || y != c.yLog2 {
			t.Errorf("%v.rates() = (%d, %d, %v), want (%d, %d, true)", c.level, x, y, ok, c.xLog2, c.yLog2)
		}
	}
}
