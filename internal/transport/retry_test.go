package transport

import (
	"context"
	"errors"
	"testing"
)

// stubSender возвращает бан заданное число раз, затем успех.
type stubSender struct {
	bansLeft int
	calls    int
	failWith error
}

func (s *stubSender) Do(_ context.Context, _ Request) (*Response, error) {
	s.calls++
	if s.failWith != nil {
		return nil, s.failWith
	}
	if s.bansLeft > 0 {
		s.bansLeft--
		return nil, &BanError{Kind: BanDDOSGuard}
	}
	return &Response{Status: 200}, nil
}

func TestRetrier_SucceedsAfterBans(t *testing.T) {
	stub := &stubSender{bansLeft: 3}
	retrier := Retrier{Retries: 3}

	resp, err := retrier.Do(context.Background(), stub, Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || resp.Status != 200 {
		t.Fatalf("expected success response, got %v", resp)
	}
	if stub.calls != 4 {
		t.Errorf("expected 4 attempts, got %d", stub.calls)
	}
}

func TestRetrier_ExhaustsBound(t *testing.T) {
	stub := &stubSender{bansLeft: 3}
	retrier := Retrier{Retries: 2}

	_, err := retrier.Do(context.Background(), stub, Request{})

	var ban *BanError
	if !errors.As(err, &ban) {
		t.Fatalf("expected terminal ban error, got %v", err)
	}
	if stub.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", stub.calls)
	}
}

func TestRetrier_DoesNotRetryTimeouts(t *testing.T) {
	stub := &stubSender{failWith: ErrTimeout}
	retrier := NewRetrier()

	_, err := retrier.Do(context.Background(), stub, Request{})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected timeout to surface, got %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("timeout must not be retried, got %d attempts", stub.calls)
	}
}

func TestRetrier_DoesNotRetryConnectionErrors(t *testing.T) {
	stub := &stubSender{failWith: ErrConnection}
	retrier := NewRetrier()

	_, err := retrier.Do(context.Background(), stub, Request{})
	if !errors.Is(err, ErrConnection) {
		t.Fatalf("expected connection error to surface, got %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("connection error must not be retried, got %d attempts", stub.calls)
	}
}
