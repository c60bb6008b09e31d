package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestConfigure_IgnoresZeroValues(t *testing.T) {
	t.Cleanup(Reset)

	Configure(Config{Login: 3 * time.Second})
	if Login() != 3*time.Second {
		t.Errorf("Login = %v", Login())
	}
	if Short() != Defaults.Short {
		t.Errorf("Short changed to %v", Short())
	}

	Configure(Config{Batch: 2 * time.Minute})
	if Login() != 3*time.Second {
		t.Errorf("second Configure lost Login: %v", Login())
	}

	Reset()
	if Login() != Defaults.Login || Batch() != Defaults.Batch {
		t.Errorf("after Reset: login=%v batch=%v", Login(), Batch())
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	defer cancel()
	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("err = %v", ctx.Err())
	}
}
