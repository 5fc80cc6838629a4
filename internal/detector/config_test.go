package detector

import (
	"errors"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	got := NewConfig().Params()
	want := Params{
		LowerLimit:    100,
		UpperLimit:    1300,
		SlowWindow:    20,
		FastWindow:    5,
		SlopeDelta:    70,
		PlateauLength: 2000,
		PlateauDelta:  2,
	}
	if got != want {
		t.Fatalf("defaults mismatch: got %+v want %+v", got, want)
	}
}

func TestDefaultParamsIsACopy(t *testing.T) {
	p := DefaultParams()
	p.LowerLimit = -1
	if DefaultParams().LowerLimit != 100 {
		t.Fatal("modifying a returned copy must not change the defaults")
	}
}

func TestSettersRejectAndRetain(t *testing.T) {
	tests := []struct {
		name  string
		apply func(c *Config) error
		check func(p Params) bool
	}{
		{"upper below lower", func(c *Config) error { return c.SetUpperLimit(50) }, func(p Params) bool { return p.UpperLimit == 1300 }},
		{"upper equal lower", func(c *Config) error { return c.SetUpperLimit(100) }, func(p Params) bool { return p.UpperLimit == 1300 }},
		{"lower above upper", func(c *Config) error { return c.SetLowerLimit(1400) }, func(p Params) bool { return p.LowerLimit == 100 }},
		{"lower equal upper", func(c *Config) error { return c.SetLowerLimit(1300) }, func(p Params) bool { return p.LowerLimit == 100 }},
		{"slow too small", func(c *Config) error { return c.SetSlowWindow(19) }, func(p Params) bool { return p.SlowWindow == 20 }},
		{"slow not above fast", func(c *Config) error { return c.SetSlowWindow(5) }, func(p Params) bool { return p.SlowWindow == 20 }},
		{"fast too small", func(c *Config) error { return c.SetFastWindow(4) }, func(p Params) bool { return p.FastWindow == 5 }},
		{"fast not below slow", func(c *Config) error { return c.SetFastWindow(20) }, func(p Params) bool { return p.FastWindow == 5 }},
		{"negative slope delta", func(c *Config) error { return c.SetSlopeDelta(-1) }, func(p Params) bool { return p.SlopeDelta == 70 }},
		{"slope delta wider than range", func(c *Config) error { return c.SetSlopeDelta(1200) }, func(p Params) bool { return p.SlopeDelta == 70 }},
		{"plateau length too small", func(c *Config) error { return c.SetPlateauLength(9) }, func(p Params) bool { return p.PlateauLength == 2000 }},
		{"negative plateau delta", func(c *Config) error { return c.SetPlateauDelta(-0.1) }, func(p Params) bool { return p.PlateauDelta == 2 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewConfig()
			err := tc.apply(c)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Param == "" {
				t.Fatalf("expected *ValidationError with a parameter name, got %#v", err)
			}
			if !tc.check(c.Params()) {
				t.Fatalf("prior value not retained: %+v", c.Params())
			}
		})
	}
}

func TestSettersAccept(t *testing.T) {
	c := NewConfig()
	steps := []error{
		c.SetLowerLimit(200),
		c.SetUpperLimit(900),
		c.SetSlowWindow(40),
		c.SetFastWindow(10),
		c.SetSlopeDelta(0),
		c.SetPlateauLength(10),
		c.SetPlateauDelta(0),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d: unexpected error %v", i, err)
		}
	}
	want := Params{LowerLimit: 200, UpperLimit: 900, SlowWindow: 40, FastWindow: 10, SlopeDelta: 0, PlateauLength: 10, PlateauDelta: 0}
	if c.Params() != want {
		t.Fatalf("got %+v want %+v", c.Params(), want)
	}
}

func TestLimitValidationOrderMatters(t *testing.T) {
	c := NewConfig()
	// lower is checked against the existing upper limit of 1300.
	if err := c.SetLowerLimit(1500); err == nil {
		t.Fatal("lower above current upper should be rejected")
	}
	if err := c.SetUpperLimit(2000); err != nil {
		t.Fatalf("raising upper: %v", err)
	}
	if err := c.SetLowerLimit(1500); err != nil {
		t.Fatalf("lower is now below upper: %v", err)
	}
}

func TestApplyReordersLimitsAndWindows(t *testing.T) {
	c := NewConfig()
	target := Params{
		LowerLimit:    1500,
		UpperLimit:    2500,
		SlowWindow:    60,
		FastWindow:    30,
		SlopeDelta:    100,
		PlateauLength: 50,
		PlateauDelta:  1,
	}
	if err := c.Apply(target); err != nil {
		t.Fatalf("consistent set should apply: %v", err)
	}
	if c.Params() != target {
		t.Fatalf("got %+v want %+v", c.Params(), target)
	}

	back := DefaultParams()
	if err := c.Apply(back); err != nil {
		t.Fatalf("returning to defaults: %v", err)
	}
	if c.Params() != back {
		t.Fatalf("got %+v want %+v", c.Params(), back)
	}
}

func TestApplyKeepsRejectedValues(t *testing.T) {
	c := NewConfig()
	p := DefaultParams()
	p.PlateauLength = 3
	p.FastWindow = 2
	p.SlopeDelta = 30

	err := c.Apply(p)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected joined validation error, got %v", err)
	}
	got := c.Params()
	if got.PlateauLength != 2000 || got.FastWindow != 5 {
		t.Fatalf("rejected values must keep prior state: %+v", got)
	}
	if got.SlopeDelta != 30 {
		t.Fatalf("valid values should still apply, slope_delta=%v", got.SlopeDelta)
	}
}
