package server

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/bastiangx/corpusquery/pkg/config"
	"github.com/bastiangx/corpusquery/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func newCompleter() *suggest.Completer {
	c := suggest.NewCompleter(suggest.DefaultOptions())
	c.AddTitles([]string{"array", "arrow", "x-ray", "burrow"})
	return c
}

// run feeds frames to a fresh server and returns a decoder over its output,
// positioned after the ready message.
func run(t *testing.T, c suggest.ICompleter, cfg *config.Config, frames ...any) *msgpack.Decoder {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, f := range frames {
		if err := enc.Encode(f); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	srv := NewServerWithIO(c, cfg, &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	if err := dec.Decode(&ready); err != nil || ready.Status != "ready" {
		t.Fatalf("ready message = %+v, %v", ready, err)
	}
	return dec
}

func TestPrefixAndContains(t *testing.T) {
	dec := run(t, newCompleter(), nil,
		Request{ID: "1", Op: OpPrefix, Query: "arr"},
		Request{ID: "2", Op: OpPrefix, Query: "array"},
		Request{ID: "3", Op: OpContains, Query: "ra"},
		Request{ID: "4", Op: OpContains, Query: "xy"},
		Request{ID: "5", Op: OpContains, Query: "rr", Limit: 1},
	)

	testCases := []struct {
		id          string
		mode        string
		exact       bool
		titles      []string
		total       int
		description string
	}{
		{"1", "prefix", false, []string{"array", "arrow"}, 2, "Strict prefix"},
		{"2", "prefix", true, []string{"array"}, 1, "Exact title"},
		{"3", "contains", true, []string{"array", "x-ray"}, 2, "Substring in two titles"},
		{"4", "contains", false, []string{}, 0, "No substring match"},
		{"5", "contains", true, []string{"array"}, 3, "Limit applied after sorting"},
	}

	for _, tc := range testCases {
		var resp QueryResponse
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("%s: decode: %v", tc.description, err)
		}
		if resp.ID != tc.id || resp.Mode != tc.mode || resp.Exact != tc.exact || resp.Total != tc.total {
			t.Errorf("%s: got %+v", tc.description, resp)
		}
		titles := []string{}
		for _, s := range resp.Suggestions {
			titles = append(titles, s.Title)
		}
		if !reflect.DeepEqual(titles, tc.titles) {
			t.Errorf("%s: titles = %v, want %v", tc.description, titles, tc.titles)
		}
		if resp.Count != len(resp.Suggestions) {
			t.Errorf("%s: count %d != %d suggestions", tc.description, resp.Count, len(resp.Suggestions))
		}
	}
}

func TestErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MinQuery = 1
	cfg.Server.MaxQuery = 5

	dec := run(t, newCompleter(), cfg,
		Request{ID: "a", Op: "delete"},
		Request{ID: "b", Op: OpPrefix, Query: ""},
		Request{ID: "c", Op: OpPrefix, Query: "toolong"},
		Request{ID: "d", Op: OpContains, Query: "a\nb"},
		Request{ID: "e", Op: OpInsert, Title: "new"},
		"not a request",
		Request{ID: "f", Op: OpHealth},
	)

	want := []struct {
		id   string
		code int
		text string
	}{
		{"a", 404, "Unknown op"},
		{"b", 400, "at least 1"},
		{"c", 400, "maximum length of 5"},
		{"d", 400, "control characters"},
		{"e", 403, "disabled"},
		{"", 400, "Invalid msgpack"},
	}
	for _, w := range want {
		var e QueryError
		if err := dec.Decode(&e); err != nil {
			t.Fatalf("decode error for %q: %v", w.id, err)
		}
		if e.ID != w.id || e.Code != w.code || !strings.Contains(e.Error, w.text) {
			t.Errorf("got %+v, want id=%q code=%d containing %q", e, w.id, w.code, w.text)
		}
	}

	var health StatusResponse
	if err := dec.Decode(&health); err != nil || health.ID != "f" || health.Status != "ok" {
		t.Errorf("health after bad frame = %+v, %v", health, err)
	}
}

func TestInsertAndStats(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.AllowInsert = true
	cfg.Index.MaxTitleLength = 10

	c := newCompleter()
	dec := run(t, c, cfg,
		Request{ID: "1", Op: OpInsert, Title: "arrays"},
		Request{ID: "2", Op: OpInsert, Title: "array"},
		Request{ID: "3", Op: OpInsert, Title: ""},
		Request{ID: "4", Op: OpInsert, Title: "much too long title"},
		Request{ID: "5", Op: OpPrefix, Query: "array"},
		Request{ID: "6", Op: OpStats},
	)

	var ins InsertResponse
	if err := dec.Decode(&ins); err != nil || !ins.Added || ins.ID != "1" {
		t.Errorf("insert new = %+v, %v", ins, err)
	}
	if err := dec.Decode(&ins); err != nil || ins.Added || ins.ID != "2" {
		t.Errorf("insert duplicate = %+v, %v", ins, err)
	}
	for _, id := range []string{"3", "4"} {
		var e QueryError
		if err := dec.Decode(&e); err != nil || e.ID != id || e.Code != 400 {
			t.Errorf("invalid insert %s = %+v, %v", id, e, err)
		}
	}

	var q QueryResponse
	if err := dec.Decode(&q); err != nil {
		t.Fatal(err)
	}
	if !q.Exact || q.Total != 2 {
		t.Errorf("prefix after insert = %+v", q)
	}

	var st StatsResponse
	if err := dec.Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.ID != "6" || st.Stats["totalTitles"] != 5 {
		t.Errorf("stats = %+v", st)
	}
}

func TestLimitClamp(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxLimit = 2
	cfg.Server.DefaultLimit = 1

	dec := run(t, newCompleter(), cfg,
		Request{ID: "1", Op: OpPrefix, Query: ""},
		Request{ID: "2", Op: OpPrefix, Query: "", Limit: 50},
	)
	for _, want := range []int{1, 2} {
		var q QueryResponse
		if err := dec.Decode(&q); err != nil {
			t.Fatal(err)
		}
		if q.Count != want || q.Total != 4 {
			t.Errorf("request %s: count=%d total=%d, want %d and 4", q.ID, q.Count, q.Total, want)
		}
	}
}
