package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ContextHandler_Handle(t *testing.T) {
	testCases := []struct {
		name     string
		ctx      context.Context
		expected map[string]string
		absent   []string
	}{
		{
			name:     "user id present",
			ctx:      WithUserID(context.Background(), "uid-1"),
			expected: map[string]string{"user_id": "uid-1"},
			absent:   []string{"trace_id", "request_id"},
		},
		{
			name:   "plain context",
			ctx:    context.Background(),
			absent: []string{"trace_id", "request_id", "user_id"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var buf bytes.Buffer
			log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil))).With("component", "test")

			// when
			log.InfoContext(tc.ctx, "message")

			// then
			var record map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			assert.Equal(t, "test", record["component"])
			for k, v := range tc.expected {
				assert.Equal(t, v, record[k])
			}
			for _, k := range tc.absent {
				assert.NotContains(t, record, k)
			}
		})
	}
}
