package push

import (
	"encoding/json"
	"errors"

	"content_moderation/internal/pkg/config"

	"github.com/aliyun/alibaba-cloud-sdk-go/sdk/requests"
	"github.com/aliyun/alibaba-cloud-sdk-go/services/push"
)

// ErrPushNotConfigured 未配置推送凭证
var ErrPushNotConfigured = errors.New("push config is missing")

type AliyunPushService struct {
	client *push.Client
	appKey int64
}

func NewAliyunPushService(cfg config.PushConfig) (*AliyunPushService, error) {
	if cfg.AccessKeyID == "" || cfg.AppKey == 0 {
		return nil, ErrPushNotConfigured
	}
	region := cfg.RegionID
	if region == "" {
		region = "cn-hangzhou"
	}

	client, err := push.NewClientWithAccessKey(
		region,
		cfg.AccessKeyID,
		cfg.AccessKeySecret,
	)
	if err != nil {
		return nil, err
	}

	return &AliyunPushService{
		client: client,
		appKey: cfg.AppKey,
	}, nil
}

// PushToAccount 按账号推送，账号即作者 ID
func (s *AliyunPushService) PushToAccount(accountID string, title, body string, extParameters map[string]string) error {
	_, err := s.client.Push(buildRequest(s.appKey, "ACCOUNT", accountID, title, body, extParameters))
	return err
}

func buildRequest(appKey int64, target, targetValue, title, body string, extParameters map[string]string) *push.PushRequest {
	request := push.CreatePushRequest()
	request.AppKey = requests.NewInteger(int(appKey))
	request.Target = target
	request.TargetValue = targetValue
	request.Title = title
	request.Body = body
	request.DeviceType = "ALL"  // iOS & Android
	request.PushType = "NOTICE" // 通知

	// 扩展参数 (JSON 序列化)
	if len(extParameters) > 0 {
		extJSON, _ := json.Marshal(extParameters)
		request.AndroidExtParameters = string(extJSON)
		request.IOSExtParameters = string(extJSON)
	}
	return request
}
