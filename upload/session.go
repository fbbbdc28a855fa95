package upload

import (
	"context"
	"fmt"
	"time"
)

// Outcome is what a submission reports back to the user.
type Outcome struct {
	Pass      bool      `json:"pass"`
	Message   string    `json:"message"`
	FileID    string    `json:"fileId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Session tracks the files submitted during one upload flow. The zero value
// is ready to use. A Session is not safe for concurrent use.
type Session struct {
	files []string
}

// Submit validates payload and stores it. Failures are reported in the
// Outcome; there is no retry.
func (s *Session) Submit(ctx context.Context, store Store, payload Payload) Outcome {
	if err := payload.Validate(); err != nil {
		return Outcome{Message: err.Error()}
	}
	receipt, err := store.CreateUpload(ctx, payload)
	if err != nil {
		return Outcome{Message: fmt.Sprintf("upload %s failed: %v", payload.FileName, err)}
	}
	s.files = append(s.files, payload.FileName)
	return Outcome{
		Pass:      true,
		Message:   fmt.Sprintf("uploaded %s: %d %s records", payload.FileName, receipt.RecordCount, payload.FileType),
		FileID:    receipt.FileID,
		CreatedAt: receipt.CreatedAt,
	}
}

// Files returns the names of the files stored so far, in submission order.
func (s *Session) Files() []string {
	return append([]string(nil), s.files...)
}
