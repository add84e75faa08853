package voicebank

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/iabetor/cvvc/internal/logger"
	_ "modernc.org/sqlite"
)

// Cache 用 SQLite 缓存已解析的 oto 条目，避免每次启动都重新解析大型音源。
// 每个音源只保留最新的一个快照，快照由目录指纹标识。
type Cache struct {
	db   *sql.DB
	path string
}

// OpenCache 打开或创建缓存数据库。
func OpenCache(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("创建缓存目录失败: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开缓存数据库失败: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("设置 WAL 模式失败: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("启用外键约束失败: %w", err)
	}

	c := &Cache{db: db, path: dbPath}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debugf("[voicebank] 缓存数据库已打开: %s", dbPath)
	return c, nil
}

func (c *Cache) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			bank TEXT NOT NULL UNIQUE,
			fingerprint TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS aliases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			alias TEXT NOT NULL,
			file TEXT NOT NULL,
			offset_ms REAL DEFAULT 0,
			consonant_ms REAL DEFAULT 0,
			cutoff_ms REAL DEFAULT 0,
			preutter_ms REAL DEFAULT 0,
			overlap_ms REAL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_aliases_snapshot ON aliases(snapshot_id)`,
	}
	for _, m := range migrations {
		if _, err := c.db.Exec(m); err != nil {
			return fmt.Errorf("缓存数据库迁移失败: %w", err)
		}
	}
	return nil
}

// Path 返回缓存数据库路径。
func (c *Cache) Path() string {
	return c.path
}

// Store 保存音源的新快照并替换旧快照，返回快照 ID。
func (c *Cache) Store(bank, fingerprint string, entries []OtoEntry) (string, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return "", fmt.Errorf("开始事务失败: %w", err)
	}
	defer tx.Rollback()

	// 外键约束只对执行过 PRAGMA 的连接生效，别名需要显式删除
	if _, err := tx.Exec("DELETE FROM aliases WHERE snapshot_id IN (SELECT id FROM snapshots WHERE bank = ?)", bank); err != nil {
		return "", fmt.Errorf("删除旧别名失败: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM snapshots WHERE bank = ?", bank); err != nil {
		return "", fmt.Errorf("删除旧快照失败: %w", err)
	}

	id := uuid.New().String()
	if _, err := tx.Exec("INSERT INTO snapshots (id, bank, fingerprint) VALUES (?, ?, ?)", id, bank, fingerprint); err != nil {
		return "", fmt.Errorf("写入快照失败: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO aliases
		(snapshot_id, alias, file, offset_ms, consonant_ms, cutoff_ms, preutter_ms, overlap_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("准备写入别名失败: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(id, e.Alias, e.File, e.Offset, e.Consonant, e.Cutoff, e.Preutter, e.Overlap); err != nil {
			return "", fmt.Errorf("写入别名 %s 失败: %w", e.Alias, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("提交事务失败: %w", err)
	}
	logger.Infof("[voicebank] 已缓存音源 %s: %d 个别名 (snapshot=%s)", bank, len(entries), id)
	return id, nil
}

// Lookup 查找与指纹匹配的快照。指纹不一致或不存在时 ok 为 false。
func (c *Cache) Lookup(bank, fingerprint string) (entries []OtoEntry, snapshotID string, ok bool, err error) {
	var stored string
	err = c.db.QueryRow("SELECT id, fingerprint FROM snapshots WHERE bank = ?", bank).Scan(&snapshotID, &stored)
	if err == sql.ErrNoRows {
		return nil, "", false, nil
	}
	if err != nil {
		return nil, "", false, fmt.Errorf("查询快照失败: %w", err)
	}
	if stored != fingerprint {
		logger.Debugf("[voicebank] 音源 %s 指纹已变化，缓存失效", bank)
		return nil, "", false, nil
	}

	rows, err := c.db.Query(`SELECT alias, file, offset_ms, consonant_ms, cutoff_ms, preutter_ms, overlap_ms
		FROM aliases WHERE snapshot_id = ? ORDER BY id`, snapshotID)
	if err != nil {
		return nil, "", false, fmt.Errorf("查询别名失败: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e OtoEntry
		if err := rows.Scan(&e.Alias, &e.File, &e.Offset, &e.Consonant, &e.Cutoff, &e.Preutter, &e.Overlap); err != nil {
			return nil, "", false, fmt.Errorf("读取别名失败: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, "", false, fmt.Errorf("读取别名失败: %w", err)
	}
	return entries, snapshotID, true, nil
}

// Close 关闭数据库连接。
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
