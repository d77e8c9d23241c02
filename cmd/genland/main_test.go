package main

import (
	"testing"

	"genland/internal/config"
	"genland/internal/volume"
)

func TestFillColorFlagDefault(t *testing.T) {
	var c config.Color
	if err := c.UnmarshalText([]byte(defaultFillColor.String())); err != nil {
		t.Fatalf("parse default fill color %q: %v", defaultFillColor.String(), err)
	}
	want := volume.DefaultFillColor
	if c.R != want.R || c.G != want.G || c.B != want.B {
		t.Fatalf("fill flag default = %v, want %v", c, want)
	}
}
