// Package upload submits extracted records to a persistence backend and
// fetches them back.
package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"casereport/record"
)

var (
	ErrUploadNotFound = errors.New("upload not found")
	ErrInvalidPayload = errors.New("invalid payload")
)

// Payload is the single submission unit: one file's extracted records.
type Payload struct {
	FileName string          `json:"fileName"`
	FileType record.FileType `json:"fileType"`
	Records  []record.Record `json:"records"`
}

func (p Payload) Validate() error {
	if strings.TrimSpace(p.FileName) == "" {
		return fmt.Errorf("%w: file name is required", ErrInvalidPayload)
	}
	if !p.FileType.Valid() {
		return fmt.Errorf("%w: unknown file type %d", ErrInvalidPayload, int(p.FileType))
	}
	if len(p.Records) == 0 {
		return fmt.Errorf("%w: no records extracted from %s", ErrInvalidPayload, p.FileName)
	}
	for i, r := range p.Records {
		if r == nil || r.FileType() != p.FileType {
			return fmt.Errorf("%w: record %d is not a %s record", ErrInvalidPayload, i, p.FileType)
		}
	}
	return nil
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw struct {
		FileName string          `json:"fileName"`
		FileType record.FileType `json:"fileType"`
		Records  json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	records, err := decodeRecords(raw.FileType, raw.Records)
	if err != nil {
		return err
	}
	*p = Payload{FileName: raw.FileName, FileType: raw.FileType, Records: records}
	return nil
}

type Receipt struct {
	FileID      string    `json:"fileId"`
	RecordCount int       `json:"recordCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UploadInfo struct {
	FileID      string          `json:"fileId"`
	FileName    string          `json:"fileName"`
	FileType    record.FileType `json:"fileType"`
	RecordCount int             `json:"recordCount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Stored is an upload together with its records in submission order.
type Stored struct {
	Upload  UploadInfo      `json:"upload"`
	Records []record.Record `json:"records"`
}

func (s *Stored) UnmarshalJSON(data []byte) error {
	var raw struct {
		Upload  UploadInfo      `json:"upload"`
		Records json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	records, err := decodeRecords(raw.Upload.FileType, raw.Records)
	if err != nil {
		return err
	}
	*s = Stored{Upload: raw.Upload, Records: records}
	return nil
}

func decodeRecords(ft record.FileType, data json.RawMessage) ([]record.Record, error) {
	if len(data) == 0 || string(data) == "null" {
		return []record.Record{}, nil
	}
	return record.Decode(ft, data)
}

// Store persists uploads. Implementations return errors wrapping
// ErrUploadNotFound for unknown file ids.
type Store interface {
	CreateUpload(ctx context.Context, payload Payload) (Receipt, error)
	Records(ctx context.Context, fileID string) (Stored, error)
	ListUploads(ctx context.Context) ([]UploadInfo, error)
	DeleteUpload(ctx context.Context, fileID string) error
}

// Fetch returns the file type and records of a stored upload.
func Fetch(ctx context.Context, store Store, fileID string) (record.FileType, []record.Record, error) {
	if strings.TrimSpace(fileID) == "" {
		return 0, nil, fmt.Errorf("%w: empty file id", ErrUploadNotFound)
	}
	stored, err := store.Records(ctx, fileID)
	if err != nil {
		return 0, nil, fmt.Errorf("fetch upload %s: %w", fileID, err)
	}
	return stored.Upload.FileType, stored.Records, nil
}
