package voicebank

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// OtoEntry 是 oto.ini 中的一行。
// 格式: file.wav=alias,offset,consonant,cutoff,preutter,overlap
type OtoEntry struct {
	File      string
	Alias     string
	Offset    float64
	Consonant float64
	Cutoff    float64
	Preutter  float64
	Overlap   float64
}

// decoder 返回 oto.ini 的解码器。UTAU 音源大多使用 Shift-JIS。
func decoder(encoding string) (transform.Transformer, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM.NewDecoder(), nil
	case "shift_jis", "shift-jis", "sjis", "cp932":
		return japanese.ShiftJIS.NewDecoder(), nil
	}
	return nil, fmt.Errorf("不支持的 oto 编码: %s", encoding)
}

// ParseOto 解析 oto.ini。别名为空时使用文件名（不含扩展名）。
func ParseOto(r io.Reader, encoding string) ([]OtoEntry, error) {
	dec, err := decoder(encoding)
	if err != nil {
		return nil, err
	}

	var entries []OtoEntry
	scanner := bufio.NewScanner(transform.NewReader(r, dec))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		file, params, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("oto 第 %d 行: 缺少 '='", lineNum)
		}
		fields := strings.Split(params, ",")
		e := OtoEntry{File: strings.TrimSpace(file), Alias: strings.TrimSpace(fields[0])}
		if e.Alias == "" {
			e.Alias = strings.TrimSuffix(filepath.Base(e.File), filepath.Ext(e.File))
		}

		nums := []*float64{&e.Offset, &e.Consonant, &e.Cutoff, &e.Preutter, &e.Overlap}
		for i, p := range nums {
			if i+1 >= len(fields) {
				break
			}
			f := strings.TrimSpace(fields[i+1])
			if f == "" {
				continue
			}
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("oto 第 %d 行: 第 %d 个参数 %q 不是数字", lineNum, i+1, f)
			}
			*p = v
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ParseOtoFile 是打开文件后调用 ParseOto 的便捷函数。
func ParseOtoFile(path, encoding string) ([]OtoEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseOto(f, encoding)
}

// otoFiles 列出音源目录下所有 oto.ini（包括子目录）。
func otoFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(d.Name(), "oto.ini") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// ParseDir 解析音源目录下全部 oto.ini，条目的 File 为相对音源根目录的路径。
func ParseDir(dir, encoding string) ([]OtoEntry, error) {
	files, err := otoFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("遍历音源目录 %s 失败: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("音源目录 %s 中没有 oto.ini", dir)
	}

	var all []OtoEntry
	for _, path := range files {
		entries, err := ParseOtoFile(path, encoding)
		if err != nil {
			return nil, fmt.Errorf("解析 %s 失败: %w", path, err)
		}
		rel, _ := filepath.Rel(dir, filepath.Dir(path))
		for i := range entries {
			entries[i].File = filepath.ToSlash(filepath.Join(rel, entries[i].File))
		}
		all = append(all, entries...)
	}
	return all, nil
}
