package logging

import (
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLogContext(t *testing.T) {
	ctx := WithLogField(context.Background(), "user_id", "usr-123")
	assert.Equal(t, "usr-123", L(ctx).Data["user_id"])
}

func TestLogContextTruncatesLongValues(t *testing.T) {
	long := strings.Repeat("a", 100)
	ctx := WithLogField(context.Background(), "payload", long)
	got, ok := L(ctx).Data["payload"].(string)
	assert.True(t, ok)
	assert.Len(t, got, maxFieldLength)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestLogContextFieldsAccumulate(t *testing.T) {
	ctx := WithLogField(context.Background(), "a", "1")
	ctx = WithLogField(ctx, "b", "2")
	entry := L(ctx)
	assert.Equal(t, "1", entry.Data["a"])
	assert.Equal(t, "2", entry.Data["b"])
}

func TestSetLevel(t *testing.T) {
	testCases := []struct {
		level string
		want  logrus.Level
	}{
		{"eRrOr", logrus.ErrorLevel},
		{"DEBUG", logrus.DebugLevel},
		{"trace", logrus.TraceLevel},
		{"info", logrus.InfoLevel},
		{"not-a-level", logrus.InfoLevel},
	}
	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			SetLevel(tc.level)
			assert.Equal(t, tc.want, rootLogger.GetLevel())
		})
	}
}

func TestLWithoutContextValue(t *testing.T) {
	assert.NotNil(t, L(context.Background()))
	assert.NotNil(t, L(nil)) //nolint:staticcheck // exercising the nil guard
}
