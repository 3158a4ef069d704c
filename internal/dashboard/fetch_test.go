package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFetchPair_BothSucceed(t *testing.T) {
	a, b := FetchPair(context.Background(),
		func(context.Context) (int, error) { return 1, nil },
		func(context.Context) (string, error) { return "x", nil },
	)

	if !a.OK() || !b.OK() {
		t.Fatalf("expected both ok, got %v / %v", a.Err, b.Err)
	}
	if a.Value != 1 || b.Value != "x" {
		t.Errorf("unexpected values %d / %q", a.Value, b.Value)
	}
}

func TestFetchPair_RunsConcurrently(t *testing.T) {
	started := make(chan struct{})
	release := func(ctx context.Context) (int, error) {
		select {
		case <-started:
			return 1, nil
		case <-time.After(2 * time.Second):
			return 0, errors.New("peer never started")
		}
	}
	signal := func(ctx context.Context) (int, error) {
		close(started)
		return 2, nil
	}

	a, b := FetchPair(context.Background(), release, signal)
	if !a.OK() || !b.OK() {
		t.Fatalf("expected both fetches to overlap, got %v / %v", a.Err, b.Err)
	}
}

func TestFetchPair_FailureDoesNotCancelPeer(t *testing.T) {
	boom := errors.New("boom")
	failed := make(chan struct{})
	a, b := FetchPair(context.Background(),
		func(context.Context) (int, error) {
			close(failed)
			return 0, boom
		},
		func(ctx context.Context) (int, error) {
			<-failed
			time.Sleep(10 * time.Millisecond)
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			return 1, nil
		},
	)

	if !errors.Is(a.Err, boom) {
		t.Errorf("expected boom, got %v", a.Err)
	}
	if !b.OK() || b.Value != 1 {
		t.Errorf("expected peer to complete, got %d / %v", b.Value, b.Err)
	}
}

func TestBothOr(t *testing.T) {
	fallback := Pair[int, string]{First: -1, Second: "mock"}

	tests := []struct {
		name string
		a    Result[int]
		b    Result[string]
		want Pair[int, string]
		live bool
	}{
		{"both ok", Ok(7), Ok("live"), Pair[int, string]{First: 7, Second: "live"}, true},
		{"first fails", Fail[int](errors.New("x")), Ok("live"), fallback, false},
		{"second fails", Ok(7), Fail[string](errors.New("y")), fallback, false},
		{"both fail", Fail[int](errors.New("x")), Fail[string](errors.New("y")), fallback, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, live := BothOr(tt.a, tt.b, fallback)
			if got != tt.want || live != tt.live {
				t.Errorf("expected %+v/%v, got %+v/%v", tt.want, tt.live, got, live)
			}
		})
	}
}

func TestResultOr(t *testing.T) {
	if got := Fail[int](errors.New("x")).Or(5); got != 5 {
		t.Errorf("expected fallback 5, got %d", got)
	}
	if got := Ok(3).Or(5); got != 3 {
		t.Errorf("expected value 3, got %d", got)
	}
}

func TestFirstErr(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	if err := FirstErr(Fail[int](first), Fail[int](second)); err != first {
		t.Errorf("expected first error, got %v", err)
	}
	if err := FirstErr(Ok(1), Fail[int](second)); err != second {
		t.Errorf("expected second error, got %v", err)
	}
	if err := FirstErr(Ok(1), Ok(2)); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
