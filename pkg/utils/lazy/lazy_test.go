package lazy

import (
	"errors"
	"testing"
)

func TestLoadRunsOnce(t *testing.T) {
	calls := 0
	v := Load(func() (int, error) {
		calls++
		return 42, nil
	})

	for range 3 {
		got, err := v.Get()
		if err != nil || got != 42 {
			t.Fatalf("Get() = %d, %v", got, err)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}
}

func TestLoadRemembersError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	v := Load(func() (string, error) {
		calls++
		return "", boom
	})

	for range 2 {
		if _, err := v.Get(); !errors.Is(err, boom) {
			t.Fatalf("Get() error = %v, want boom", err)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}
}
