package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"casereport/record"
	"casereport/upload"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrUploadNotFound matches upload.ErrUploadNotFound under errors.Is.
var ErrUploadNotFound = fmt.Errorf("storage: %w", upload.ErrUploadNotFound)

type SQLiteStore struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

var _ upload.Store = (*SQLiteStore)(nil)

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db, now: time.Now, newID: uuid.NewString}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS uploads (
	id TEXT PRIMARY KEY,
	file_name TEXT NOT NULL,
	file_type INTEGER NOT NULL CHECK(file_type > 0),
	record_count INTEGER NOT NULL CHECK(record_count >= 0),
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	upload_id TEXT NOT NULL REFERENCES uploads(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	payload TEXT NOT NULL,
	UNIQUE(upload_id, position)
);
CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CreateUpload stores payload and its records in one transaction.
func (s *SQLiteStore) CreateUpload(ctx context.Context, payload upload.Payload) (upload.Receipt, error) {
	if err := payload.Validate(); err != nil {
		return upload.Receipt{}, err
	}

	receipt := upload.Receipt{
		FileID:      s.newID(),
		RecordCount: len(payload.Records),
		CreatedAt:   s.now().UTC().Truncate(time.Second),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return upload.Receipt{}, fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO uploads (id, file_name, file_type, record_count, created_at) VALUES (?, ?, ?, ?, ?);`,
		receipt.FileID,
		payload.FileName,
		int(payload.FileType),
		receipt.RecordCount,
		receipt.CreatedAt.Format(time.RFC3339),
	); err != nil {
		_ = tx.Rollback()
		return upload.Receipt{}, fmt.Errorf("insert upload: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (upload_id, position, payload) VALUES (?, ?, ?);`)
	if err != nil {
		_ = tx.Rollback()
		return upload.Receipt{}, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range payload.Records {
		encoded, err := json.Marshal(r)
		if err != nil {
			_ = tx.Rollback()
			return upload.Receipt{}, fmt.Errorf("encode record %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, receipt.FileID, i, string(encoded)); err != nil {
			_ = tx.Rollback()
			return upload.Receipt{}, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return upload.Receipt{}, fmt.Errorf("commit transaction: %w", err)
	}
	return receipt, nil
}

func (s *SQLiteStore) ListUploads(ctx context.Context) ([]upload.UploadInfo, error) {
	const query = `
SELECT id, file_name, file_type, record_count, created_at
FROM uploads
ORDER BY created_at DESC, file_name;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}
	defer rows.Close()

	uploads := make([]upload.UploadInfo, 0, 32)
	for rows.Next() {
		info, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uploads: %w", err)
	}
	return uploads, nil
}

// Records returns an upload and its records in position order.
func (s *SQLiteStore) Records(ctx context.Context, fileID string) (upload.Stored, error) {
	info, err := scanUpload(s.db.QueryRowContext(ctx,
		`SELECT id, file_name, file_type, record_count, created_at FROM uploads WHERE id = ?;`,
		fileID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return upload.Stored{}, fmt.Errorf("%w: %s", ErrUploadNotFound, fileID)
	}
	if err != nil {
		return upload.Stored{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM records WHERE upload_id = ? ORDER BY position;`,
		fileID,
	)
	if err != nil {
		return upload.Stored{}, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	stored := upload.Stored{Upload: info, Records: make([]record.Record, 0, info.RecordCount)}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return upload.Stored{}, fmt.Errorf("scan record: %w", err)
		}
		r, err := record.DecodeOne(info.FileType, []byte(raw))
		if err != nil {
			return upload.Stored{}, err
		}
		stored.Records = append(stored.Records, r)
	}
	if err := rows.Err(); err != nil {
		return upload.Stored{}, fmt.Errorf("iterate records: %w", err)
	}
	return stored, nil
}

// DeleteUpload removes an upload and its records.
func (s *SQLiteStore) DeleteUpload(ctx context.Context, fileID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE upload_id = ?;`, fileID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete records of %s: %w", fileID, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM uploads WHERE id = ?;`, fileID)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete upload %s: %w", fileID, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("read deleted row count: %w", err)
	}
	if rowsAffected == 0 {
		_ = tx.Rollback()
		return fmt.Errorf("%w: %s", ErrUploadNotFound, fileID)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteAllUploads(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM records;`); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("delete records: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM uploads;`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("delete uploads: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete transaction: %w", err)
	}
	return rows, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUpload(row rowScanner) (upload.UploadInfo, error) {
	var (
		info       upload.UploadInfo
		fileType   int
		createdRaw string
	)
	if err := row.Scan(&info.FileID, &info.FileName, &fileType, &info.RecordCount, &createdRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return upload.UploadInfo{}, err
		}
		return upload.UploadInfo{}, fmt.Errorf("scan upload: %w", err)
	}
	info.FileType = record.FileType(fileType)

	created, err := time.Parse(time.RFC3339, createdRaw)
	if err != nil {
		return upload.UploadInfo{}, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}
	info.CreatedAt = created
	return info, nil
}
