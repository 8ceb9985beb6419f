package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReportRequestMessage asks the worker to export one client's weekly report.
type ReportRequestMessage struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"clientId"`
	ClientName string    `json:"clientName"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewReportRequestMessage creates a request with a fresh id.
func NewReportRequestMessage(clientID, clientName string) *ReportRequestMessage {
	return &ReportRequestMessage{
		ID:         uuid.NewString(),
		ClientID:   clientID,
		ClientName: clientName,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportRequestMessageFromJSON decodes a message and checks the client id is set.
func ReportRequestMessageFromJSON(data []byte) (*ReportRequestMessage, error) {
	var msg ReportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ClientID == "" {
		return nil, errors.New("report request without clientId")
	}
	return &msg, nil
}
