package service

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		current string
		target  string
		want    bool
	}{
		{"pending", "processing", true},
		{"pending", "cancelled", true},
		{"pending", "delivered", false},
		{"processing", "delivered", true},
		{"processing", "cancelled", true},
		{"processing", "pending", false},
		{"delivered", "cancelled", false},
		{"delivered", "processing", false},
		{"cancelled", "pending", false},
		{"cancelled", "processing", false},
		{"pending", "pending", false},
		{"Pending", "PROCESSING", true},
		{" pending ", "processing", true},
		{"", "processing", false},
		{"pending", "", false},
		{"unknown", "processing", false},
	}
	for _, c := range cases {
		if got := canTransition(c.current, c.target); got != c.want {
			t.Errorf("canTransition(%q, %q) = %v, 期望 %v", c.current, c.target, got, c.want)
		}
	}
}
