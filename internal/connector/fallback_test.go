package connector

import (
	"context"
	"errors"
	"testing"
)

func step(name, value string, err error, calls *[]string) attempt[string] {
	return attempt[string]{name: name, run: func(context.Context) (string, error) {
		*calls = append(*calls, name)
		return value, err
	}}
}

func TestFirstUsable_ShortCircuits(t *testing.T) {
	var calls []string
	attempts := []attempt[string]{
		step("a", "", errors.New("down"), &calls),
		step("b", "ok", nil, &calls),
		step("c", "never", nil, &calls),
	}

	got, err := firstUsable(context.Background(), "test", attempts, nonEmpty, false)
	if err != nil {
		t.Fatalf("firstUsable() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("firstUsable() = %q, want %q", got, "ok")
	}
	if len(calls) != 2 {
		t.Errorf("calls = %v, want a and b only", calls)
	}
}

func TestFirstUsable_SkipsEmptyResults(t *testing.T) {
	var calls []string
	attempts := []attempt[string]{
		step("a", "", nil, &calls),
		step("b", "value", nil, &calls),
	}

	got, err := firstUsable(context.Background(), "test", attempts, nonEmpty, false)
	if err != nil || got != "value" {
		t.Errorf("firstUsable() = %q, %v; want value, nil", got, err)
	}
}

func TestFirstUsable_AbsorbsAllFailures(t *testing.T) {
	var calls []string
	attempts := []attempt[string]{
		step("a", "", errors.New("one"), &calls),
		step("b", "", errors.New("two"), &calls),
	}

	got, err := firstUsable(context.Background(), "test", attempts, nonEmpty, false)
	if err != nil {
		t.Fatalf("firstUsable() error = %v, want absorbed", err)
	}
	if got != "" {
		t.Errorf("firstUsable() = %q, want empty", got)
	}
	if len(calls) != 2 {
		t.Errorf("calls = %v, want both attempted", calls)
	}
}

func TestFirstUsable_PropagateLast(t *testing.T) {
	var calls []string
	final := errors.New("final down")
	attempts := []attempt[string]{
		step("a", "", errors.New("one"), &calls),
		step("b", "", final, &calls),
	}

	_, err := firstUsable(context.Background(), "test", attempts, nonEmpty, true)
	if !errors.Is(err, final) {
		t.Errorf("firstUsable() error = %v, want the final step's failure", err)
	}
}

func TestFirstUsable_PropagateLast_EarlierFailuresStillAbsorbed(t *testing.T) {
	var calls []string
	attempts := []attempt[string]{
		step("a", "", errors.New("one"), &calls),
		step("b", "late", nil, &calls),
	}

	got, err := firstUsable(context.Background(), "test", attempts, nonEmpty, true)
	if err != nil || got != "late" {
		t.Errorf("firstUsable() = %q, %v; want late, nil", got, err)
	}
}

func TestFirstUsable_ReturnsLastEmptyValue(t *testing.T) {
	var calls []string
	attempts := []attempt[string]{
		step("a", "", nil, &calls),
		step("b", "", nil, &calls),
	}

	got, err := firstUsable(context.Background(), "test", attempts, nonEmpty, false)
	if err != nil || got != "" {
		t.Errorf("firstUsable() = %q, %v; want empty, nil", got, err)
	}
}
