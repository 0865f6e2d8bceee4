package backend

import "github.com/square-key-labs/hostline-ai/src/menu"

// Store describes a restaurant location. Loaded once per call and immutable
// afterwards.
type Store struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	NotificationPhone string `json:"notificationPhone"` // merchant SMS target
	TransferPhone     string `json:"transferPhone"`     // manager SIP transfer target
}

// OrderRequest is the payload for submitting a phone order. The backend is
// the system of record; nothing is persisted client-side.
type OrderRequest struct {
	StoreID       string           `json:"storeId"`
	CustomerName  string           `json:"customerName"`
	CustomerPhone string           `json:"customerPhone"`
	Items         []menu.OrderLine `json:"items"`
	Total         string           `json:"total"` // 2-decimal string, e.g. "12.99"
}

// ReservationRequest is the payload for submitting a table reservation
type ReservationRequest struct {
	StoreID       string `json:"storeId"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	Date          string `json:"date"` // ISO 8601 date, YYYY-MM-DD
	Time          string `json:"time"` // 24-hour HH:MM
	PartySize     int    `json:"partySize"`
}

// TranscriptMessage is one persisted transcript entry
type TranscriptMessage struct {
	Role      string `json:"role"` // "customer" or "agent"
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"` // RFC 3339 UTC
}

// ConversationRecord is the payload for persisting a finished call
type ConversationRecord struct {
	StoreID       string                 `json:"storeId"`
	CustomerPhone string                 `json:"customerPhone"`
	Transcript    TranscriptPayload      `json:"transcript"`
	Duration      int                    `json:"duration"` // seconds
	CallStatus    string                 `json:"callStatus"`
	AIAnalysis    map[string]interface{} `json:"aiAnalysis,omitempty"`
}

// TranscriptPayload wraps the transcript messages in the shape the backend
// expects
type TranscriptPayload struct {
	Messages []TranscriptMessage `json:"messages"`
}
