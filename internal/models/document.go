package models

// DocStatus is the processing status stored on a Document.
// It is recorded as "pending" on insert and is not advanced by the
// transcription or summary flows.
type DocStatus string

const (
	StatusPending    DocStatus = "pending"
	StatusProcessing DocStatus = "processing"
	StatusCompleted  DocStatus = "completed"
	StatusFailed     DocStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s DocStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Document is the record for one uploaded HOA PDF.
// StorageID is a lookup key into the blob store; the document does not own the bytes.
type Document struct {
	ID         string    `json:"id" firestore:"-" bson:"_id"`
	StorageID  string    `json:"storageId" firestore:"storageId" bson:"storageId"`
	HOAID      string    `json:"hoaId" firestore:"hoaId" bson:"hoaId"`
	DocName    string    `json:"docName" firestore:"docName" bson:"docName"`
	Transcript string    `json:"transcript" firestore:"transcript" bson:"transcript"`
	Summary    *string   `json:"summary,omitempty" firestore:"summary,omitempty" bson:"summary,omitempty"`
	Status     DocStatus `json:"status" firestore:"status" bson:"status"`
	Error      string    `json:"error,omitempty" firestore:"error,omitempty" bson:"error,omitempty"`
	UploadedAt int64     `json:"uploadedAt" firestore:"uploadedAt" bson:"uploadedAt"`
	UpdatedAt  int64     `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`
}

// HasSummary reports whether a non-empty summary has been saved.
func (d *Document) HasSummary() bool {
	return d.Summary != nil && *d.Summary != ""
}

// DocumentView is a Document plus a retrieval URL for its PDF.
type DocumentView struct {
	*Document
	URL string `json:"url"`
}

// DocumentMeta is the header information shown above the document viewer.
type DocumentMeta struct {
	ID      string `json:"id"`
	DocName string `json:"docName"`
	HOA     *HOA   `json:"hoa"`
	URL     string `json:"url,omitempty"`
}
