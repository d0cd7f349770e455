package push

import (
	"testing"

	"content_moderation/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAliyunPushService(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		svc, err := NewAliyunPushService(config.PushConfig{})
		assert.Nil(t, svc)
		assert.ErrorIs(t, err, ErrPushNotConfigured)
	})

	t.Run("configured", func(t *testing.T) {
		svc, err := NewAliyunPushService(config.PushConfig{
			AccessKeyID:     "ak",
			AccessKeySecret: "sk",
			AppKey:          12345,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(12345), svc.appKey)
	})
}

func TestBuildRequest(t *testing.T) {
	req := buildRequest(12345, "ACCOUNT", "author-1", "title", "body", map[string]string{"recordId": "rec-1"})

	assert.Equal(t, "ACCOUNT", req.Target)
	assert.Equal(t, "author-1", req.TargetValue)
	assert.Equal(t, "NOTICE", req.PushType)
	assert.Equal(t, `{"recordId":"rec-1"}`, req.AndroidExtParameters)
	assert.Equal(t, req.AndroidExtParameters, req.IOSExtParameters)
}
