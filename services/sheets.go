package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// SheetsClient forwards submitted checklists to a Google Apps Script
// endpoint that appends them to the maintenance spreadsheet. Forwarding is
// strictly best-effort.
type SheetsClient struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

type sheetsPayload struct {
	SystemType string            `json:"systemType"`
	Data       map[string]string `json:"data"`
	Timestamp  string            `json:"timestamp"`
}

func NewSheetsClient(url string, log *logrus.Logger) *SheetsClient {
	return &SheetsClient{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Forward posts the checklist to the configured endpoint. An unset URL
// disables forwarding with a warning.
func (s *SheetsClient) Forward(systemType string, data map[string]string) error {
	if s.url == "" {
		s.log.Warn("Google Apps Script URL not configured, skipping spreadsheet forward")
		return nil
	}

	payload := sheetsPayload{
		SystemType: systemType,
		Data:       data,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sheets forward failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
