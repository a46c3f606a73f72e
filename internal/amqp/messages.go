package amqp

import (
	"encoding/json"
	"time"
)

// TransactionPostedMessage tells the export worker a ledger entry was
// posted. It carries only the id; the worker reloads the row from the
// database so the sheet always reflects the stored state.
type TransactionPostedMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionPostedMessage(id string) *TransactionPostedMessage {
	return &TransactionPostedMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *TransactionPostedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionPostedMessageFromJSON(data []byte) (*TransactionPostedMessage, error) {
	var msg TransactionPostedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
