package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/orderlyhq/orderly-starter/internal/settings"
)

func TestStreamMissingShop(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/api/settings/stream", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	decodeError(t, rec)
}

func TestStreamSeedsAndPushesUpdates(t *testing.T) {
	app := newTestApp(t, nil)
	server := httptest.NewServer(app.handler)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/settings/stream?shop=acme.myshopify.com"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// First frame carries the current record.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var seed settings.Record
	if err := conn.ReadJSON(&seed); err != nil {
		t.Fatalf("seed read failed: %v", err)
	}
	if seed.Shop != "acme.myshopify.com" || seed.BrandName != "Orderly" {
		t.Errorf("unexpected seed record: %+v", seed)
	}

	// An update through the API is pushed to the open socket.
	body := bytes.NewReader([]byte(`{"brandName":"Acme Co"}`))
	res, err := http.Post(server.URL+"/api/settings?shop=acme.myshopify.com", "application/json", body)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	res.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pushed settings.Record
	if err := conn.ReadJSON(&pushed); err != nil {
		t.Fatalf("push read failed: %v", err)
	}
	if pushed.BrandName != "Acme Co" {
		t.Errorf("expected pushed update, got %+v", pushed)
	}
}
