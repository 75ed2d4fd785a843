package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client wraps HTTP calls to the photoapp web service.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a Client from a base URL (e.g. http://localhost:8080) and bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/") + "/api",
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Minute, // base64 payloads of large photos
		},
	}
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.Token = token
	return &clone
}

// APIError is returned when the server sends a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// --- low-level helpers ---

func (c *Client) newRequest(method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) doJSON(req *http.Request, out interface{}) (int, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Message != "" {
			return resp.StatusCode, &APIError{Status: resp.StatusCode, Message: errResp.Message}
		}
		return resp.StatusCode, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// Get sends a GET request and decodes the JSON body into out.
func (c *Client) Get(path string, out interface{}) error {
	req, err := c.newRequest(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	_, err = c.doJSON(req, out)
	return err
}

// Post sends a POST with a JSON body and returns the response status.
func (c *Client) Post(path string, body interface{}, out interface{}) (int, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		r = bytes.NewReader(data)
	}
	req, err := c.newRequest(http.MethodPost, path, r)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.doJSON(req, out)
}

// Delete sends a DELETE.
func (c *Client) Delete(path string, out interface{}) error {
	req, err := c.newRequest(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	_, err = c.doJSON(req, out)
	return err
}

// --- endpoints ---

func (c *Client) Login(username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if _, err := c.Post("/auth/login", map[string]string{"username": username, "password": password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a user and returns its id.
func (c *Client) Register(req RegisterRequest) (int64, error) {
	var resp struct {
		UserID int64 `json:"userid"`
	}
	if _, err := c.Post("/users", req, &resp); err != nil {
		return 0, err
	}
	return resp.UserID, nil
}

func (c *Client) Users() ([]User, error) {
	var resp ListResponse[User]
	if err := c.Get("/users", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) Assets() ([]Asset, error) {
	var resp ListResponse[Asset]
	if err := c.Get("/assets", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Upload sends data as a base64 payload and returns the new asset id.
func (c *Client) Upload(name string, data []byte, public bool) (int64, error) {
	assetType := "private"
	if public {
		assetType = "public"
	}
	body := map[string]string{
		"assetname": name,
		"assettype": assetType,
		"data":      base64.StdEncoding.EncodeToString(data),
	}
	var resp struct {
		AssetID int64 `json:"assetid"`
	}
	if _, err := c.Post("/assets", body, &resp); err != nil {
		return 0, err
	}
	return resp.AssetID, nil
}

// Download fetches an asset and decodes its payload.
func (c *Client) Download(assetID int64) (*DownloadResponse, []byte, error) {
	var resp DownloadResponse
	if err := c.Get("/assets/"+strconv.FormatInt(assetID, 10), &resp); err != nil {
		return nil, nil, err
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding asset data: %w", err)
	}
	return &resp, data, nil
}

// Like likes an asset. created is false when the like already existed.
func (c *Client) Like(assetID int64) (likeID int64, created bool, err error) {
	var resp struct {
		LikeID int64 `json:"likeid"`
	}
	status, err := c.Post("/assets/"+strconv.FormatInt(assetID, 10)+"/likes", nil, &resp)
	if err != nil {
		return 0, false, err
	}
	return resp.LikeID, status == http.StatusCreated, nil
}

func (c *Client) Comment(assetID int64, text string) (int64, error) {
	var resp struct {
		CommentID int64 `json:"commentid"`
	}
	if _, err := c.Post("/assets/"+strconv.FormatInt(assetID, 10)+"/comments", map[string]string{"comment": text}, &resp); err != nil {
		return 0, err
	}
	return resp.CommentID, nil
}

func (c *Client) Likes(assetID int64) ([]Like, error) {
	var resp ListResponse[Like]
	if err := c.Get("/assets/"+strconv.FormatInt(assetID, 10)+"/likes", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) Comments(assetID int64) ([]Comment, error) {
	var resp ListResponse[Comment]
	if err := c.Get("/assets/"+strconv.FormatInt(assetID, 10)+"/comments", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) Version() (*VersionResponse, error) {
	var resp VersionResponse
	if err := c.Get("/version", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reset asks the server to delete every user, asset, like and comment.
func (c *Client) Reset() error {
	return c.Delete("/reset", nil)
}
