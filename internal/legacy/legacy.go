// Package legacy reads the flat-file users and posts tables written by the
// earlier CSV-backed release so they can be imported into the database.
package legacy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"hyperlocal/internal/model"
)

// TimestampLayout is the format of the posts table's timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

var (
	userColumns = []string{"email", "password_hash", "full_name", "phone", "public_name", "country", "state", "district", "pin_code", "area"}
	postColumns = []string{"author", "content", "image_reference", "pin_code", "area", "timestamp"}
)

// Loader reads legacy tables. A missing or unreadable file is logged and
// treated as an empty table.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a new loader.
func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

// LoadUsers reads the users table at path.
func (l *Loader) LoadUsers(path string) []model.User {
	rows := l.load(path, userColumns)
	users := make([]model.User, 0, len(rows))
	for _, r := range rows {
		if r["email"] == "" || r["password_hash"] == "" {
			l.logger.Warn("skipping user row without credentials", zap.String("file", path))
			continue
		}
		users = append(users, model.User{
			Email:        r["email"],
			PasswordHash: r["password_hash"],
			FullName:     r["full_name"],
			Phone:        r["phone"],
			PublicName:   r["public_name"],
			Country:      r["country"],
			State:        r["state"],
			District:     r["district"],
			PinCode:      r["pin_code"],
			Area:         r["area"],
		})
	}
	return users
}

// LoadPosts reads the posts table at path in file order.
func (l *Loader) LoadPosts(path string) []model.Post {
	rows := l.load(path, postColumns)
	posts := make([]model.Post, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r["content"]) == "" {
			l.logger.Warn("skipping post row without content", zap.String("file", path))
			continue
		}
		ts, err := time.ParseInLocation(TimestampLayout, r["timestamp"], time.UTC)
		if err != nil {
			l.logger.Warn("skipping post row with bad timestamp", zap.String("file", path), zap.String("timestamp", r["timestamp"]))
			continue
		}
		posts = append(posts, model.Post{
			Author:         r["author"],
			Content:        r["content"],
			ImageReference: r["image_reference"],
			PinCode:        r["pin_code"],
			Area:           r["area"],
			CreatedAt:      ts,
		})
	}
	return posts
}

func (l *Loader) load(path string, columns []string) []map[string]string {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Info("legacy table not found, starting empty", zap.String("file", path))
		} else {
			l.logger.Warn("legacy table unreadable, starting empty", zap.String("file", path), zap.Error(err))
		}
		return nil
	}
	defer f.Close()

	rows, err := readTable(f, columns)
	if err != nil {
		l.logger.Warn("legacy table corrupt, starting empty", zap.String("file", path), zap.Error(err))
		return nil
	}
	return rows
}

// readTable parses a CSV with a header row naming at least columns.
func readTable(r io.Reader, columns []string) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		row := make(map[string]string, len(columns))
		for _, col := range columns {
			row[col] = strings.TrimSpace(rec[index[col]])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
