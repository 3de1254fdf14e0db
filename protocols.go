package main

// Message types exchanged with the collector over the websocket.
// The JSON field names are fixed by the collector's contract.

const (
	actionScan   = "rfid_scan"
	actionDefect = "defect_scan"
)

type scanPayload struct {
	ID        string `json:"ID"`
	TagUID    string `json:"Tag_UID"`
	StationID string `json:"Station_ID"`
	TimeStamp int64  `json:"Time_Stamp"`
}

type scanMsg struct {
	Action string      `json:"action"`
	Data   scanPayload `json:"data"`
}

type defectPayload struct {
	ID        string `json:"ID"`
	Section   int    `json:"Section"`
	Type      int    `json:"Type"`
	Subtype   int    `json:"Subtype"`
	TagUID    string `json:"Tag_UID"`
	StationID string `json:"Station_ID"`
	TimeStamp int64  `json:"Time_Stamp"`
}

type defectMsg struct {
	Action string        `json:"action"`
	Data   defectPayload `json:"data"`
}

// serverMsg is a message from the collector. Only the kinds below are
// acted upon; anything else is logged and ignored.
//
//	"connection"        connection acknowledged
//	"rfid_scan_success" scan stored, Data.ScanID carries the database id
//	"error"             collector-side failure
type serverMsg struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ScanID string `json:"scanId"`
	} `json:"data"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
