package amqp

import (
	"encoding/json"
	"time"
)

// ExportMessage asks the worker to mirror one transaction to the
// spreadsheet. It carries only the ID; the worker fetches the row.
type ExportMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExportMessage(id int64) *ExportMessage {
	return &ExportMessage{ID: id, Timestamp: time.Now()}
}

func (m *ExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExportMessageFromJSON(data []byte) (*ExportMessage, error) {
	var msg ExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// AlertMessage carries a fired budget alert to the notification worker.
type AlertMessage struct {
	OwnerID   string    `json:"ownerId"`
	Threshold int       `json:"threshold"`
	Tier      string    `json:"tier"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func NewAlertMessage(ownerID string, threshold int, tier, message string) *AlertMessage {
	return &AlertMessage{
		OwnerID:   ownerID,
		Threshold: threshold,
		Tier:      tier,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
