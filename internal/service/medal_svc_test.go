package service

import (
	"reflect"
	"testing"
)

func TestEvaluate(t *testing.T) {
	svc := NewMedalService()

	tests := []struct {
		name           string
		monthlyPoints  int
		want           []string
	}{
		{"below bronze", 29, nil},
		{"exactly bronze", 30, []string{"bronze"}},
		{"just under gold", 149, []string{"bronze", "silver"}},
		{"exactly gold", 150, []string{"bronze", "silver", "gold"}},
		{"just under platinum", 299, []string{"bronze", "silver", "gold"}},
		{"all five tiers", 500, []string{"bronze", "silver", "gold", "platinum", "diamond"}},
		{"far beyond diamond", 10000, []string{"bronze", "silver", "gold", "platinum", "diamond"}},
		{"zero points", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Evaluate(tt.monthlyPoints)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Evaluate(%d) = %v, want %v", tt.monthlyPoints, got, tt.want)
			}
		})
	}
}

func TestNewlyEarned(t *testing.T) {
	svc := NewMedalService()

	tests := []struct {
		name   string
		before []string
		after  []string
		want   []string
	}{
		{"first medal", nil, []string{"bronze"}, []string{"bronze"}},
		{"crossing two thresholds at once", []string{"bronze"}, []string{"bronze", "silver", "gold"}, []string{"silver", "gold"}},
		{"no change within a tier", []string{"bronze", "silver"}, []string{"bronze", "silver"}, nil},
		{"points dropped, nothing newly earned", []string{"bronze", "silver"}, []string{"bronze"}, nil},
		{"everything at once", nil, []string{"bronze", "silver", "gold", "platinum", "diamond"}, []string{"bronze", "silver", "gold", "platinum", "diamond"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.NewlyEarned(tt.before, tt.after)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewlyEarned(%v, %v) = %v, want %v", tt.before, tt.after, got, tt.want)
			}
		})
	}
}

func TestHighest(t *testing.T) {
	svc := NewMedalService()

	if got := svc.Highest(nil); got != "" {
		t.Errorf("Highest(nil) = %q, want empty", got)
	}
	if got := svc.Highest(svc.Evaluate(150)); got != "gold" {
		t.Errorf("Highest(Evaluate(150)) = %q, want gold", got)
	}
	if got := svc.Highest(svc.Evaluate(500)); got != "diamond" {
		t.Errorf("Highest(Evaluate(500)) = %q, want diamond", got)
	}
}
