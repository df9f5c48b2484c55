package masothue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"product-research/utils"
)

const searchPage = `<html><body>
<ul>
<li><a href="/news/some-article">unrelated</a></li>
<li><a href="/0312345678-cong-ty-vi-du">CONG TY VI DU</a></li>
</ul>
</body></html>`

const detailPage = `<html><body>
<h1>  CONG TY
VI DU  </h1>
<table>
<tr><th>Tên quốc tế</th><td>VI DU COMPANY LIMITED</td></tr>
<tr><th>Địa chỉ</th><td>  123   Example   Street </td></tr>
<tr><th>Địa chỉ</th><td>duplicate label, skipped</td></tr>
<tr><td>single cell row</td></tr>
<tr><th></th><td>empty label, skipped</td></tr>
</table>
</body></html>`

func newTestClient(baseURL string) *Client {
	logger := utils.NewLogger()
	retry := &utils.RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: logger}
	return New(baseURL, 2*time.Second, logger, retry)
}

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/Search/"):
			if r.URL.Query().Get("q") != "0312345678" {
				t.Errorf("search query: got %q", r.URL.Query().Get("q"))
			}
			w.Write([]byte(searchPage))
		case r.URL.Path == "/0312345678-cong-ty-vi-du":
			w.Write([]byte(detailPage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	record, err := newTestClient(srv.URL).Lookup(context.Background(), "0312345678")
	if err != nil {
		t.Fatal(err)
	}

	if record.Name != "CONG TY VI DU" {
		t.Errorf("name must be whitespace-squashed, got %q", record.Name)
	}
	if record.URL != srv.URL+"/0312345678-cong-ty-vi-du" {
		t.Errorf("detail url: got %q", record.URL)
	}
	if !reflect.DeepEqual(record.FieldOrder, []string{"Tên quốc tế", "Địa chỉ"}) {
		t.Errorf("field order: got %v", record.FieldOrder)
	}
	if record.Fields["Địa chỉ"] != "123 Example Street" {
		t.Errorf("first value per label wins, squashed: got %q", record.Fields["Địa chỉ"])
	}
}

func TestLookupNoResultLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><a href="/other">nothing here</a></body></html>`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Lookup(context.Background(), "0312345678"); err == nil {
		t.Fatal("expected an error when the search has no matching link")
	}
}

func TestLookupEmptyDetailPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/Search/") {
			w.Write([]byte(searchPage))
			return
		}
		w.Write([]byte(`<html><body></body></html>`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Lookup(context.Background(), "0312345678"); err == nil {
		t.Fatal("expected an error for a detail page with no name and no fields")
	}
}

func TestFetchRetriesOnServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/Search/") {
			w.Write([]byte(searchPage))
			return
		}
		w.Write([]byte(detailPage))
	}))
	defer srv.Close()

	record, err := newTestClient(srv.URL).Lookup(context.Background(), "0312345678")
	if err != nil {
		t.Fatal(err)
	}
	if record.Name == "" {
		t.Error("expected a parsed record after the retry")
	}
	if calls < 3 {
		t.Errorf("expected the failed search to be retried, got %d calls", calls)
	}
}
