package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/leasedesk/leasedesk/backend/config"
)

// DocparseService talks to the external Docparse API, which turns an
// uploaded lease/LOI document into the raw clause payload the review
// pipeline consumes.
type DocparseService struct {
	config     *config.DocparseConfig
	httpClient *http.Client
}

// DocparseTaskRequest represents the request to create an extraction task
type DocparseTaskRequest struct {
	URL      string `json:"url"`
	Callback string `json:"callback,omitempty"`
	Seed     string `json:"seed,omitempty"`
	DataID   string `json:"data_id,omitempty"`
}

// DocparseTaskResponse represents the response from task creation
type DocparseTaskResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Data    struct {
		TaskID string `json:"task_id"`
	} `json:"data"`
}

// DocparseTaskStatusResponse represents the task status query response
type DocparseTaskStatusResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Data    struct {
		TaskID    string `json:"task_id"`
		DataID    string `json:"data_id"`
		State     string `json:"state"` // pending, running, done, failed
		ResultURL string `json:"result_url,omitempty"`
		ErrorMsg  string `json:"err_msg,omitempty"`
	} `json:"data"`
}

func NewDocparseService(cfg *config.DocparseConfig) *DocparseService {
	return &DocparseService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// CreateTask creates a new clause extraction task for a document URL
func (s *DocparseService) CreateTask(docURL, dataID string) (*DocparseTaskResponse, error) {
	reqBody := DocparseTaskRequest{
		URL:    docURL,
		DataID: dataID,
	}

	if s.config.CallbackURL != "" {
		reqBody.Callback = s.config.CallbackURL
		reqBody.Seed = s.config.Seed
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", s.config.APIURL+"/parse/task", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.config.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result DocparseTaskResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}

	if result.Code != 0 {
		return nil, fmt.Errorf("docparse API error: %s", result.Message)
	}

	return &result, nil
}

// GetTaskStatus queries the status of a task
func (s *DocparseService) GetTaskStatus(taskID string) (*DocparseTaskStatusResponse, error) {
	req, err := http.NewRequest("GET", fmt.Sprintf("%s/parse/task/%s", s.config.APIURL, taskID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.config.APIToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result DocparseTaskStatusResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Code != 0 {
		return nil, fmt.Errorf("docparse API error: %s", result.Message)
	}

	return &result, nil
}

// VerifyCallback verifies the callback checksum
func (s *DocparseService) VerifyCallback(checksum, content string, uid string) bool {
	// Checksum = SHA256(uid + seed + content)
	data := uid + s.config.Seed + content
	hash := sha256.Sum256([]byte(data))
	expected := hex.EncodeToString(hash[:])
	return checksum == expected
}

// FetchClausesResult fetches the raw clause payload from the result URL.
// The payload is kept as raw bytes so clause document order survives;
// it is validated as JSON but never decoded into a map here.
func (s *DocparseService) FetchClausesResult(resultURL string) (json.RawMessage, error) {
	resp, err := s.httpClient.Get(resultURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch result: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read result: %w", err)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("result is not valid JSON")
	}

	return json.RawMessage(body), nil
}
