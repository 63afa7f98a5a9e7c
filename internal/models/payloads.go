package models

// These structs define the JSON payloads for HTTP requests and responses
// between the web UI and the api function.

// UploadURLResponse is returned when the client asks for a signed upload URL.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	StorageID string `json:"storageId"`
}

// RegisterDocumentRequest creates a Document for a blob already uploaded
// through a signed upload URL.
type RegisterDocumentRequest struct {
	StorageID string     `json:"storageId"`
	Form      UploadForm `json:"form"`
}

// CreatedDocumentResponse is the output of an upload or register call.
type CreatedDocumentResponse struct {
	DocID string `json:"docId"`
	HOAID string `json:"hoaId"`
}

// CreateHOARequest is the input for creating an HOA on its own.
type CreateHOARequest struct {
	Name     string   `json:"name"`
	Location Location `json:"location"`
}

// SummaryResponse carries a generated summary.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// ChatRequest is the caller-assembled conversation, oldest turn first.
type ChatRequest struct {
	Messages []Turn `json:"messages"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// HOADocumentsResponse lists the documents of one HOA.
type HOADocumentsResponse struct {
	HOA       *HOA        `json:"hoa"`
	Documents []*Document `json:"documents"`
}

// URLResponse carries a blob retrieval URL.
type URLResponse struct {
	URL string `json:"url"`
}
