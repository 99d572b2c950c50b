package util

import (
	"bytes"
	"strings"
	"testing"
)

func TestSortBy(t *testing.T) {
	// Test sorting integers
	nums := []int{3, 1, 4, 1, 5}
	SortBy(nums, func(a, b int) bool { return a < b })

	expected := []int{1, 1, 3, 4, 5}
	for i, v := range nums {
		if v != expected[i] {
			t.Errorf("Expected %d at index %d, got %d", expected[i], i, v)
		}
	}

	// Equal keys keep their input order
	type pair struct{ key, val string }
	pairs := []pair{{"b", "1"}, {"a", "2"}, {"b", "3"}, {"a", "4"}}
	SortBy(pairs, func(x, y pair) bool { return x.key < y.key })

	expectedVals := []string{"2", "4", "1", "3"}
	for i, p := range pairs {
		if p.val != expectedVals[i] {
			t.Errorf("Expected %s at index %d, got %s", expectedVals[i], i, p.val)
		}
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{"Profile", "Account"}, [][]string{
		{"dev-admin", "Dev"},
		{"prod-ro", "Prod"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "PROFILE") {
		t.Errorf("Expected formatted header, got %q", lines[0])
	}
	if !strings.Contains(lines[2], "prod-ro") || !strings.Contains(lines[2], "Prod") {
		t.Errorf("Expected prod-ro row, got %q", lines[2])
	}
}

func TestColors(t *testing.T) {
	// Test that color variables are initialized
	if InfoColor == nil {
		t.Error("InfoColor should not be nil")
	}
	if SuccessColor == nil {
		t.Error("SuccessColor should not be nil")
	}
	if WarnColor == nil {
		t.Error("WarnColor should not be nil")
	}
}
