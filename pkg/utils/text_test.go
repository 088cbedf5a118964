package utils

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
	// "é" is two bytes; cutting at 2 must not split it.
	if got := Truncate("aébc", 2); got != "a..." {
		t.Errorf("multi-byte cut: got %q", got)
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank("") || !IsBlank(" \n\t ") {
		t.Error("whitespace should be blank")
	}
	if IsBlank(" a ") {
		t.Error("non-whitespace should not be blank")
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(99.999); got != 100 {
		t.Errorf("Round2(99.999) = %v", got)
	}
	if got := Round2(52.345678); got != 52.35 {
		t.Errorf("Round2(52.345678) = %v", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 100) != 0 || Clamp(101, 0, 100) != 100 || Clamp(42, 0, 100) != 42 {
		t.Error("clamp bounds")
	}
}

func TestNormalizeL2(t *testing.T) {
	v := []float32{3, 4}
	NormalizeL2(v)
	if v[0] < 0.599 || v[0] > 0.601 || v[1] < 0.799 || v[1] > 0.801 {
		t.Errorf("got %v", v)
	}
	zero := []float32{0, 0}
	NormalizeL2(zero)
	if zero[0] != 0 || zero[1] != 0 {
		t.Error("zero vector should be unchanged")
	}
}
