package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"content_moderation/internal/pkg/config"
	"content_moderation/pkg/utils"

	"github.com/google/uuid"
)

// 压测：多个审核员同时处理同一批待审核记录，
// 每条记录最终只能有一个状态，和最终状态不一致的请求必须失败
var (
	baseURL    = flag.String("url", "http://localhost:8080", "server base url")
	records    = flag.Int("records", 200, "pending records to create")
	reviewers  = flag.Int("reviewers", 20, "concurrent reviewers per record")
	httpClient *http.Client
	token      string
)

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func init() {
	// 优化 HTTP Client 配置
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000
	httpClient = &http.Client{
		Transport: t,
		Timeout:   10 * time.Second,
	}
}

func main() {
	flag.Parse()

	// 使用服务端同一份配置签发管理员 token
	config.LoadConfig()
	var err error
	token, _, err = utils.GenerateToken(uuid.NewString(), "admin")
	if err != nil {
		fmt.Printf("签发 token 失败: %v\n", err)
		return
	}

	// 1. 准备待审核记录
	ids := make([]string, 0, *records)
	for i := 0; i < *records; i++ {
		id, err := createPending(i)
		if err != nil {
			fmt.Printf("创建审核记录失败: %v\n", err)
			return
		}
		ids = append(ids, id)
	}

	fmt.Printf("开始压测：%d 条记录，每条 %d 个审核员并发处理...\n", len(ids), *reviewers)
	time.Sleep(1 * time.Second)

	// 2. 并发审核
	type outcome struct {
		status string
		ok     bool
	}
	results := make(map[string][]outcome, len(ids))
	var wg sync.WaitGroup
	var mu sync.Mutex

	start := time.Now()
	for _, id := range ids {
		for r := 0; r < *reviewers; r++ {
			status := "approved"
			if r%2 == 1 {
				status = "rejected"
			}
			wg.Add(1)
			go func(id, status string) {
				defer wg.Done()
				ok := review(id, status)
				mu.Lock()
				results[id] = append(results[id], outcome{status: status, ok: ok})
				mu.Unlock()
			}(id, status)
		}
	}
	wg.Wait()
	duration := time.Since(start)
	total := len(ids) * *reviewers

	// 3. 校验：成功的请求都必须和最终状态一致
	violations := 0
	succeeded := 0
	for _, id := range ids {
		final, err := fetchStatus(id)
		if err != nil {
			fmt.Printf("查询记录 %s 失败: %v\n", id, err)
			violations++
			continue
		}
		for _, o := range results[id] {
			if !o.ok {
				continue
			}
			succeeded++
			if o.status != final {
				violations++
			}
		}
	}

	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("总请求数: %d\n", total)
	fmt.Printf("QPS: %.2f\n", float64(total)/duration.Seconds())
	fmt.Printf("成功请求: %d，失败请求: %d\n", succeeded, total-succeeded)
	fmt.Printf("状态冲突: %d (预期: 0)\n", violations)
	fmt.Println("--------------------------------------------------")
}

func do(method, path string, payload interface{}) (int, *apiResponse, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, *baseURL+path, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	var result apiResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil {
			return resp.StatusCode, nil, err
		}
	}
	return resp.StatusCode, &result, nil
}

func createPending(i int) (string, error) {
	status, resp, err := do(http.MethodPost, "/content-moderation", map[string]interface{}{
		"contentType": "review",
		"contentId":   fmt.Sprintf("stress-%d-%d", time.Now().UnixNano(), i),
		"content":     "stress test content",
		"authorId":    uuid.NewString(),
		"action":      "user_reported",
	})
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", fmt.Errorf("unexpected status %d: %s", status, resp.Message)
	}

	var record struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Data, &record); err != nil {
		return "", err
	}
	return record.ID, nil
}

func review(id, status string) bool {
	code, resp, err := do(http.MethodPatch, "/content-moderation/"+id, map[string]interface{}{
		"status": status,
	})
	if err != nil {
		return false
	}
	return code == http.StatusOK && resp.Code == 0
}

func fetchStatus(id string) (string, error) {
	code, resp, err := do(http.MethodGet, "/content-moderation/"+id, nil)
	if err != nil {
		return "", err
	}
	if code != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", code)
	}
	var record struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Data, &record); err != nil {
		return "", err
	}
	return record.Status, nil
}
