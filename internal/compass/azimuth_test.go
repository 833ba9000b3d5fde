package compass

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{370, 10},
		{-10, 350},
		{720, 0},
		{360, 0},
		{-360, 0},
		{359.9, 359.9},
	}
	for _, c := range cases {
		if got := Normalize(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("Normalize(%g) = %g, want %g", c.in, got, c.want)
		}
	}
}

func TestNormalizePeriodicity(t *testing.T) {
	for _, h := range []float64{0, 13.7, 181.2, 359.99, -77.3} {
		base := Normalize(h)
		for k := -3; k <= 3; k++ {
			got := Normalize(h + float64(k)*360.0)
			if math.Abs(got-base) > 1e-9 {
				t.Fatalf("Normalize(%g + %d*360) = %g, want %g", h, k, got, base)
			}
		}
		if base < 0 || base >= 360.0 {
			t.Fatalf("Normalize(%g) = %g out of range", h, base)
		}
	}
}

func TestAzimuth16(t *testing.T) {
	cases := []struct {
		heading float64
		want    Azimuth
	}{
		{0, N},
		{11.24, N},
		{11.25, NNE}, // upper bound is exclusive; rolls to the next point
		{22.5, NNE},
		{45, NE},
		{67.5, ENE},
		{90, E},
		{180, S},
		{270, W},
		{348.74, NNW},
		{348.75, N},
		{359, N},
	}
	for _, c := range cases {
		got, _ := Azimuth16(c.heading)
		if got != c.want {
			t.Fatalf("Azimuth16(%g) = %v, want %v", c.heading, got, c.want)
		}
	}
}

func TestAzimuth16NormalizedReturn(t *testing.T) {
	az, norm := Azimuth16(370.0)
	if az != N || norm != 10.0 {
		t.Fatalf("Azimuth16(370) = %v, %g; want N, 10", az, norm)
	}
	az, norm = Azimuth16(-10.0)
	if az != N || norm != 350.0 {
		t.Fatalf("Azimuth16(-10) = %v, %g; want N, 350", az, norm)
	}
}

func TestAzimuth8(t *testing.T) {
	cases := []struct {
		heading float64
		want    Azimuth
	}{
		{0, N},
		{22.4, N},
		{22.5, NE},
		{45, NE},
		{90, E},
		{135, SE},
		{180, S},
		{225, SW},
		{270, W},
		{315, NW},
		{337.5, N},
	}
	for _, c := range cases {
		got, _ := Azimuth8(c.heading)
		if got != c.want {
			t.Fatalf("Azimuth8(%g) = %v, want %v", c.heading, got, c.want)
		}
	}
}

func TestAzimuth4(t *testing.T) {
	cases := []struct {
		heading float64
		want    Azimuth
	}{
		{0, N},
		{44, N},
		{45, E},
		{90, E},
		{134.9, E},
		{180, S},
		{270, W},
		{314.9, W},
		{315, N},
	}
	for _, c := range cases {
		got, _ := Azimuth4(c.heading)
		if got != c.want {
			t.Fatalf("Azimuth4(%g) = %v, want %v", c.heading, got, c.want)
		}
	}
}

func TestAzimuthNames(t *testing.T) {
	if N.Name() != "North" {
		t.Fatalf("N.Name() = %q", N.Name())
	}
	if NE.Name() != "North-East" {
		t.Fatalf("NE.Name() = %q", NE.Name())
	}
	if SSW.Abbreviation() != "SSW" {
		t.Fatalf("SSW.Abbreviation() = %q", SSW.Abbreviation())
	}
	if got := NNE.String(); got != "NNE" {
		t.Fatalf("NNE.String() = %q", got)
	}
}
