package jsonapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		page      int
		perPage   int
		wantPages int
		wantStart int
		wantEnd   int
		wantNext  bool
		wantPrev  bool
	}{
		{"empty", 0, 1, 10, 1, 0, 0, false, false},
		{"first page", 25, 1, 10, 3, 0, 10, true, false},
		{"last page", 25, 3, 10, 3, 20, 25, false, true},
		{"past the end", 25, 9, 10, 3, 25, 25, false, true},
		{"defaults", 5, 0, 0, 1, 0, 5, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, tt.perPage, "")
			if got := p.TotalPages(); got != tt.wantPages {
				t.Errorf("TotalPages() = %d, want %d", got, tt.wantPages)
			}
			start, end := p.Window(int(tt.total))
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Window() = [%d, %d), want [%d, %d)", start, end, tt.wantStart, tt.wantEnd)
			}
			if p.HasNext() != tt.wantNext {
				t.Errorf("HasNext() = %v, want %v", p.HasNext(), tt.wantNext)
			}
			if p.HasPrev() != tt.wantPrev {
				t.Errorf("HasPrev() = %v, want %v", p.HasPrev(), tt.wantPrev)
			}
		})
	}
}

func TestPaginationLinks(t *testing.T) {
	p := NewPagination(30, 2, 10, "/diagnostics?severity=error")
	links := p.Links()

	next, err := url.Parse(links.Next)
	if err != nil {
		t.Fatalf("parse next link: %v", err)
	}
	q := next.Query()
	if q.Get("page[number]") != "3" || q.Get("page[size]") != "10" {
		t.Errorf("next link = %s", links.Next)
	}
	if q.Get("severity") != "error" {
		t.Errorf("next link dropped filter: %s", links.Next)
	}
	if links.Prev == "" {
		t.Error("missing prev link on page 2")
	}
}

func TestParsePaginationParams(t *testing.T) {
	tests := []struct {
		query       string
		wantPage    int
		wantPerPage int
	}{
		{"", 1, 50},
		{"page[number]=3&page[size]=20", 3, 20},
		{"page[size]=7", 1, 7},
		{"page[size]=100000", 1, MaxPageSize},
		{"page[number]=-1&page[size]=abc", 1, 50},
		{"page=2&per_page=5", 1, 50},
	}

	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		page, perPage := ParsePaginationParams(q, 50)
		if page != tt.wantPage || perPage != tt.wantPerPage {
			t.Errorf("ParsePaginationParams(%q) = (%d, %d), want (%d, %d)",
				tt.query, page, perPage, tt.wantPage, tt.wantPerPage)
		}
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrBadParameter("severity", "unknown severity"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != ContentType {
		t.Errorf("Content-Type = %q", ct)
	}

	var doc Document
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Errors) != 1 || doc.Errors[0].Source.Parameter != "severity" {
		t.Errorf("errors = %+v", doc.Errors)
	}
	if doc.JSONAPI == nil || doc.JSONAPI.Version != Version {
		t.Error("missing jsonapi version object")
	}
}

func TestWriteErrorEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestWriteCollection(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteCollection(rec, nil, NewPagination(0, 1, 10, ""), Meta{"run": "r1"})

	var body struct {
		Data []Resource `json:"data"`
		Meta Meta       `json:"meta"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data == nil || len(body.Data) != 0 {
		t.Errorf("data = %v, want empty array", body.Data)
	}
	if body.Meta["run"] != "r1" || body.Meta["total"] != float64(0) {
		t.Errorf("meta = %v", body.Meta)
	}
}
