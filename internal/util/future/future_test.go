package future

import (
	"errors"
	"testing"
	"time"
)

func TestAwaitReturnsValue(t *testing.T) {
	f := New(func() (int, error) {
		return 42, nil
	})
	v, err := f.Await()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
}

func TestAwaitReturnsError(t *testing.T) {
	wantErr := errors.New("read failed")
	f := New(func() (int, error) {
		return 0, wantErr
	})
	_, err := f.Await()
	if err != wantErr {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

func TestDoneClosesOnlyAfterCompletion(t *testing.T) {
	release := make(chan struct{})
	f := New(func() (int, error) {
		<-release
		return 1, nil
	})

	select {
	case <-f.Done():
		t.Fatal("future reported done before its function returned")
	default:
	}

	close(release)
	<-f.Done()

	v, err := f.Await()
	if err != nil || v != 1 {
		t.Fatalf("expected (1, nil), got (%d, %v)", v, err)
	}
}

func TestAwaitTimeoutExpires(t *testing.T) {
	f := New(func() (int, error) {
		time.Sleep(50 * time.Millisecond)
		return 7, nil
	})
	_, _, ok := f.AwaitTimeout(5 * time.Millisecond)
	if ok {
		t.Fatal("expected AwaitTimeout to time out")
	}
	v, err, ok := f.AwaitTimeout(100 * time.Millisecond)
	if !ok || err != nil || v != 7 {
		t.Fatalf("expected (7, nil, true), got (%d, %v, %v)", v, err, ok)
	}
}
