package voicebank

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/iabetor/cvvc/internal/logger"
)

// Options 控制音源加载。
type Options struct {
	Encoding string            // oto.ini 编码，默认 UTF-8
	CacheDB  string            // SQLite 缓存路径，为空则不缓存
	Subbanks []SubbankSettings // 额外的子音源配置，追加在 character.yaml 之后
}

// Bank 是加载完成的音源。
type Bank struct {
	Name       string
	Dir        string
	SnapshotID string // 来自缓存的快照 ID，未启用缓存时为空
	*Set
}

// Fingerprint 根据所有 oto.ini 的路径、大小和修改时间计算目录指纹。
func Fingerprint(dir string) (string, error) {
	files, err := otoFiles(dir)
	if err != nil {
		return "", fmt.Errorf("遍历音源目录 %s 失败: %w", dir, err)
	}
	sort.Strings(files)

	h := sha256.New()
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return "", err
		}
		rel, _ := filepath.Rel(dir, f)
		fmt.Fprintf(h, "%s\x00%d\x00%d\n", filepath.ToSlash(rel), info.Size(), info.ModTime().UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Load 加载音源目录：读取 character.yaml 的子音源，优先使用缓存中的条目，否则解析 oto.ini。
func Load(dir string, opts Options) (*Bank, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("解析音源路径失败: %w", err)
	}

	var settings []SubbankSettings
	char, err := LoadCharacter(filepath.Join(abs, "character.yaml"))
	if err != nil {
		return nil, err
	}
	name := filepath.Base(abs)
	if char != nil {
		settings = append(settings, char.Subbanks...)
		if char.Name != "" {
			name = char.Name
		}
	}
	settings = append(settings, opts.Subbanks...)
	subbanks, err := BuildSubbanks(settings)
	if err != nil {
		return nil, err
	}

	bank := &Bank{Name: name, Dir: abs}

	var cache *Cache
	var fingerprint string
	if opts.CacheDB != "" {
		cache, err = OpenCache(opts.CacheDB)
		if err != nil {
			return nil, err
		}
		defer cache.Close()

		fingerprint, err = Fingerprint(abs)
		if err != nil {
			return nil, err
		}
		entries, id, ok, err := cache.Lookup(abs, fingerprint)
		if err != nil {
			logger.Warnf("[voicebank] 读取缓存失败（将重新解析）: %v", err)
		} else if ok {
			bank.SnapshotID = id
			bank.Set = NewSetFromEntries(entries, subbanks)
			logger.Infof("[voicebank] 从缓存加载音源 %s: %d 个别名", name, bank.Len())
			return bank, nil
		}
	}

	entries, err := ParseDir(abs, opts.Encoding)
	if err != nil {
		return nil, err
	}
	bank.Set = NewSetFromEntries(entries, subbanks)
	logger.Infof("[voicebank] 已解析音源 %s: %d 个别名, %d 个子音源", name, bank.Len(), len(subbanks))

	if cache != nil {
		id, err := cache.Store(abs, fingerprint, entries)
		if err != nil {
			logger.Warnf("[voicebank] 写入缓存失败: %v", err)
		} else {
			bank.SnapshotID = id
		}
	}
	return bank, nil
}
