package main

// scanRecord is the unit of data queued for delivery to the collector.
// Immutable once created by the admission pipeline; it leaves the
// system either through a successful send or through overflow eviction.
type scanRecord struct {
	Timestamp     int64 // epoch seconds, 0 = clock not synchronized
	StationNumber int
	UID           [maxUIDLen]byte
	UIDSize       uint8
	ScanID        string
	StationID     string
}

func newScanRecord(stationNumber int, uid []byte, scanID, stationID string, ts int64) scanRecord {
	r := scanRecord{
		Timestamp:     ts,
		StationNumber: stationNumber,
		UIDSize:       uint8(len(uid)),
		ScanID:        scanID,
		StationID:     stationID,
	}
	copy(r.UID[:], uid)
	return r
}

func (r scanRecord) uidString() string {
	s, err := encodeUID(r.UID[:r.UIDSize])
	if err != nil {
		return ""
	}
	return s
}

func (r scanRecord) wireMessage() scanMsg {
	return scanMsg{
		Action: actionScan,
		Data: scanPayload{
			ID:        r.ScanID,
			TagUID:    r.uidString(),
			StationID: r.StationID,
			TimeStamp: r.Timestamp,
		},
	}
}
