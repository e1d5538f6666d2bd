package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// MemosClient talks to the Memos HTTP API of one account, identified by its
// open id.
type MemosClient struct {
	host       string
	openID     string
	httpClient *http.Client
}

// NewMemosClient creates a client for the Memos instance at host. A nil
// httpClient falls back to http.DefaultClient.
func NewMemosClient(host, openID string, httpClient *http.Client) *MemosClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &MemosClient{
		host:       strings.TrimRight(host, "/"),
		openID:     openID,
		httpClient: httpClient,
	}
}

type blobResponse struct {
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
	Error string `json:"error"`
}

type memoRequest struct {
	Content        string        `json:"content"`
	Visibility     string        `json:"visibility"`
	ResourceIDList []json.Number `json:"resourceIdList"`
}

type memoResponse struct {
	ID    json.Number `json:"id"`
	Error string      `json:"error"`
}

// UploadBlob uploads one attachment as a multipart file to the resource
// blob endpoint and returns the identifier of the created resource.
func (c *MemosClient) UploadBlob(data []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("building multipart body: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("building multipart body: %v", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("building multipart body: %v", err)
	}

	endpoint := c.host + "/api/resource/blob?openId=" + url.QueryEscape(c.openID)
	resp, err := c.httpClient.Post(endpoint, writer.FormDataContentType(), &body)
	if err != nil {
		return "", fmt.Errorf("uploading resource blob: %w", err)
	}
	defer resp.Body.Close()

	var result blobResponse
	if err := decodeJSON(resp.Body, &result); err != nil {
		return "", fmt.Errorf("decoding blob response: %v", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("memos rejected resource upload: %s", result.Error)
	}
	if result.Data.ID == "" {
		return "", fmt.Errorf("blob response missing resource id for %s", filename)
	}
	return result.Data.ID.String(), nil
}

// CreateMemo creates a new memo with the given markdown content and the
// resources uploaded for it. Visibility is left to the server default.
func (c *MemosClient) CreateMemo(content string, resourceIDs []string) (string, error) {
	ids := make([]json.Number, 0, len(resourceIDs))
	for _, id := range resourceIDs {
		ids = append(ids, json.Number(id))
	}
	payload, err := json.Marshal(memoRequest{
		Content:        content,
		Visibility:     "",
		ResourceIDList: ids,
	})
	if err != nil {
		return "", fmt.Errorf("encoding memo request: %v", err)
	}

	endpoint := c.host + "/api/memo?openId=" + url.QueryEscape(c.openID)
	resp, err := c.httpClient.Post(endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating memo: %w", err)
	}
	defer resp.Body.Close()

	var result memoResponse
	if err := decodeJSON(resp.Body, &result); err != nil {
		return "", fmt.Errorf("decoding memo response: %v", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("memos rejected memo creation: %s", result.Error)
	}
	return result.ID.String(), nil
}

func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(v)
}
