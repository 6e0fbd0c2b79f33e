package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func write(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuiltin(t *testing.T) {
	articles := Builtin()
	if len(articles) != 15 {
		t.Fatalf("Builtin() returned %d articles, want 15", len(articles))
	}
	if articles[0].ID != 1 || articles[14].ID != 15 {
		t.Errorf("unexpected ids %d..%d", articles[0].ID, articles[14].ID)
	}
	if err := Validate(articles); err != nil {
		t.Errorf("builtin corpus fails validation: %v", err)
	}
	articles[0].Title = "changed"
	if Builtin()[0].Title == "changed" {
		t.Error("Builtin() shares its backing array")
	}
}

func TestLoadFormats(t *testing.T) {
	want := []Article{
		{ID: 1, Title: "Array of Strings: 15 Must-Have Examples"},
		{ID: 2, Title: "Mastering String Arrays: 15 Key Examples"},
	}
	mp, err := msgpack.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	testCases := []struct {
		name        string
		data        []byte
		format      FileFormat
		description string
	}{
		{"a.json", []byte(`[{"id":1,"title":"Array of Strings: 15 Must-Have Examples"},{"id":2,"title":"Mastering String Arrays: 15 Key Examples"}]`), FormatJSON, "JSON articles"},
		{"a.yaml", []byte("- id: 1\n  title: \"Array of Strings: 15 Must-Have Examples\"\n- id: 2\n  title: \"Mastering String Arrays: 15 Key Examples\"\n"), FormatYAML, "YAML articles"},
		{"a.txt", []byte("Array of Strings: 15 Must-Have Examples\r\nMastering String Arrays: 15 Key Examples\n\n"), FormatText, "Text lines with CRLF and trailing blank"},
		{"a.msgpack", mp, FormatMsgpack, "MessagePack articles"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			path := write(t, dir, tc.name, tc.data)
			format, err := DetectFileFormat(path)
			if err != nil || format != tc.format {
				t.Fatalf("DetectFileFormat = %v, %v", format, err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Load = %+v, want %+v", got, want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	testCases := []struct {
		name        string
		data        []byte
		want        error
		description string
	}{
		{"bad.csv", []byte("a,b"), ErrUnknownFormat, "Unsupported extension"},
		{"bad.json", []byte(`[{"id":1,"title":`), ErrMalformed, "Truncated JSON"},
		{"empty-title.json", []byte(`[{"id":1,"title":""}]`), ErrMalformed, "Empty title"},
		{"ctrl.yaml", []byte("- id: 1\n  title: \"tab\\there\"\n"), ErrMalformed, "Control character"},
		{"utf8.txt", []byte("ok\n\xff\xfe\n"), ErrMalformed, "Invalid UTF-8 line"},
		{"none.json", []byte(`[]`), ErrEmpty, "No records"},
		{"blank.txt", []byte("\n\n"), ErrEmpty, "Only blank lines"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			path := write(t, dir, tc.name, tc.data)
			articles, err := Load(path)
			if !errors.Is(err, tc.want) {
				t.Errorf("Load(%s) error = %v, want %v", tc.name, err, tc.want)
			}
			if articles != nil {
				t.Errorf("Load(%s) returned partial data: %+v", tc.name, articles)
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.txt", []byte("second\n"))
	write(t, dir, "a.json", []byte(`[{"id":7,"title":"first"}]`))
	write(t, dir, "notes.md", []byte("ignored"))
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	if !HasCorpus(dir) {
		t.Error("HasCorpus(dir) = false")
	}
	got, err := LoadPath(dir)
	if err != nil {
		t.Fatalf("LoadPath: %v", err)
	}
	want := []Article{{ID: 7, Title: "first"}, {ID: 1, Title: "second"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadDir = %+v, want %+v", got, want)
	}

	write(t, dir, "c.yaml", []byte("not: [a list"))
	if _, err := LoadDir(dir); !errors.Is(err, ErrMalformed) {
		t.Errorf("LoadDir with a bad file: %v, want ErrMalformed", err)
	}

	empty := t.TempDir()
	if HasCorpus(empty) {
		t.Error("HasCorpus(empty dir) = true")
	}
	if _, err := LoadDir(empty); !errors.Is(err, ErrEmpty) {
		t.Errorf("LoadDir(empty) = %v, want ErrEmpty", err)
	}
}

func TestTitles(t *testing.T) {
	articles := []Article{
		{ID: 1, Title: "array"},
		{ID: 2, Title: "Array"},
		{ID: 3, Title: "array"},
		{ID: 4, Title: "arrow"},
	}
	if got := Titles(articles); !reflect.DeepEqual(got, []string{"array", "Array", "arrow"}) {
		t.Errorf("Titles = %v", got)
	}
}
