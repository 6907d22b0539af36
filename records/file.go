package records

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/labreport/lab"
	"github.com/ByLCY/labreport/logging"
)

// FileStore 将记录以 JSON Lines 追加到文件，每行一条。
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *log.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore 创建文件存储；文件在首次追加时创建。
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, logger: logging.Logger(logging.SourceStore)}
}

func (s *FileStore) Append(ctx context.Context, rec lab.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("编码记录失败: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建记录目录失败: %w", err)
		}
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("打开记录文件失败: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("写入记录失败: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.logger.Debug("record appended", "id", rec.ID, "path", s.path)
	return nil
}

func (s *FileStore) Latest(ctx context.Context, name string) (lab.Record, error) {
	recs, err := s.All(ctx)
	if err != nil {
		return lab.Record{}, err
	}
	return latest(recs, name)
}

// All 读取全部记录；无法解析的行被跳过并记录警告。
func (s *FileStore) All(ctx context.Context) ([]lab.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("打开记录文件失败: %w", err)
	}
	defer f.Close()

	var out []lab.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec lab.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			s.logger.Warn("skipping malformed record", "path", s.path, "line", lineNo, "err", err)
			continue
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取记录文件失败: %w", err)
	}
	return out, nil
}
