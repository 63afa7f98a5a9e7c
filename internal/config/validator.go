package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate reports missing or inconsistent settings for the selected backends.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	switch c.Store.Backend {
	case "firestore":
		if c.Store.ProjectID == "" {
			errors = append(errors, ValidationError{Field: "PROJECT_ID", Message: "required for the firestore store"})
		}
	case "mongo":
		if c.Store.MongoURI == "" {
			errors = append(errors, ValidationError{Field: "MONGODB_URI", Message: "required for the mongo store"})
		}
	case "memory":
	default:
		errors = append(errors, ValidationError{Field: "STORE_BACKEND", Message: fmt.Sprintf("unknown backend %q", c.Store.Backend)})
	}

	switch c.Blob.Backend {
	case "gcs":
		if c.Blob.UploadsBucket == "" {
			errors = append(errors, ValidationError{Field: "UPLOADS_BUCKET", Message: "required for the gcs blob store"})
		}
	case "minio":
		if c.Blob.MinIOEndpoint == "" {
			errors = append(errors, ValidationError{Field: "MINIO_ENDPOINT", Message: "required for the minio blob store"})
		}
	case "memory":
		if !strings.HasPrefix(c.Blob.MemoryBaseURL, "http") {
			errors = append(errors, ValidationError{Field: "BLOB_BASE_URL", Message: "must be an http(s) URL"})
		}
	default:
		errors = append(errors, ValidationError{Field: "BLOB_BACKEND", Message: fmt.Sprintf("unknown backend %q", c.Blob.Backend)})
	}
	if c.Blob.SignedURLTTL <= 0 {
		errors = append(errors, ValidationError{Field: "SIGNED_URL_TTL", Message: "must be positive"})
	}

	if c.Models.ProjectID == "" {
		errors = append(errors, ValidationError{Field: "PROJECT_ID", Message: "required for Vertex AI"})
	}
	switch c.Models.Transcriber {
	case "vertex":
	case "gemini":
		if c.Models.GeminiAPIKey == "" {
			errors = append(errors, ValidationError{Field: "GEMINI_API_KEY", Message: "required for the gemini transcriber"})
		}
	default:
		errors = append(errors, ValidationError{Field: "TRANSCRIBER", Message: fmt.Sprintf("unknown transcriber %q", c.Models.Transcriber)})
	}
	if c.Models.TranscribeDelay < 0 {
		errors = append(errors, ValidationError{Field: "TRANSCRIBE_DELAY", Message: "must not be negative"})
	}
	if c.Models.SummaryTemperature < 0 || c.Models.SummaryTemperature > 2 {
		errors = append(errors, ValidationError{Field: "SUMMARY_TEMPERATURE", Message: "must be between 0 and 2"})
	}
	if c.Models.OpenAIAPIKey == "" {
		errors = append(errors, ValidationError{Field: "OPENAI_API_KEY", Message: "required for chat"})
	}

	if c.RecentLimit < 1 {
		errors = append(errors, ValidationError{Field: "RECENT_LIMIT", Message: "must be at least 1"})
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			errors = append(errors, ValidationError{Field: "RATE_LIMIT_RPS", Message: "must be positive"})
		}
		if c.RateLimit.Burst < 0 {
			errors = append(errors, ValidationError{Field: "RATE_LIMIT_BURST", Message: "must not be negative"})
		}
	}

	return errors
}
