package vars

import "testing"

func TestDerefOrZero(t *testing.T) {
	if DerefOrZero[int](nil) != 0 {
		t.Fatal()
	}
	n := 42
	if DerefOrZero(&n) != 42 {
		t.Fatal()
	}
}

func TestFirstNonZero(t *testing.T) {
	if FirstNonZero(0, 0, 3, 4) != 3 {
		t.Fatal()
	}
	if FirstNonZero("", "a") != "a" {
		t.Fatal()
	}
	if FirstNonZero[int]() != 0 {
		t.Fatal()
	}
}

func TestStrToBool(t *testing.T) {
	for str, expected := range map[string]bool{
		"true":  true,
		"Yes":   true,
		"T":     true,
		"y":     true,
		"false": false,
		"No":    false,
		"":      false,
		"1":     true,
		" on ":  true,
		"off":   false,
	} {
		if StrToBool(str) != expected {
			t.Fatalf("%q", str)
		}
	}
}
