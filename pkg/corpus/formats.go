package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// FileFormat represents the supported corpus file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatJSON               // [{"id": 1, "title": "..."}]
	FormatYAML               // - id: 1\n  title: ...
	FormatText               // one title per line
	FormatMsgpack            // msgpack array of articles
)

// FormatInfo contains metadata about a corpus file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	decode      func([]byte) ([]Article, error)
}

var supportedFormats = []FormatInfo{
	{FormatJSON, "JSON Articles", []string{".json"}, decodeJSON},
	{FormatYAML, "YAML Articles", []string{".yaml", ".yml"}, decodeYAML},
	{FormatText, "Plain Text Titles", []string{".txt"}, decodeText},
	{FormatMsgpack, "MessagePack Articles", []string{".msgpack", ".mpk"}, decodeMsgpack},
}

func (f FileFormat) String() string {
	if info, ok := GetFormatInfo(f); ok {
		return info.Description
	}
	return "Unknown"
}

// DetectFileFormat picks the format from the file extension.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e == ext {
				return info.Format, nil
			}
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnknownFormat, filename)
}

// IsSupported reports whether filename has a known corpus extension.
func IsSupported(filename string) bool {
	_, err := DetectFileFormat(filename)
	return err == nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	for _, info := range supportedFormats {
		if info.Format == format {
			return info, true
		}
	}
	return FormatInfo{}, false
}

// ListSupportedFormats returns all supported formats
func ListSupportedFormats() []FormatInfo {
	return append([]FormatInfo(nil), supportedFormats...)
}

// Decode parses data in the given format. It does not validate.
func Decode(format FileFormat, data []byte) ([]Article, error) {
	info, ok := GetFormatInfo(format)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	return info.decode(data)
}

func decodeJSON(data []byte) ([]Article, error) {
	var articles []Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return articles, nil
}

func decodeYAML(data []byte) ([]Article, error) {
	var articles []Article
	if err := yaml.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return articles, nil
}

func decodeMsgpack(data []byte) ([]Article, error) {
	var articles []Article
	if err := msgpack.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return articles, nil
}

// decodeText reads one title per line. Blank lines are skipped and IDs are
// the 1-based line numbers.
func decodeText(data []byte) ([]Article, error) {
	var articles []Article
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		title := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(title) == "" {
			continue
		}
		articles = append(articles, Article{ID: line, Title: title})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line+1, err)
	}
	return articles, nil
}
