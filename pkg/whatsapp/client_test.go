package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJID(t *testing.T) {
	got, err := JID("098765 43210", "IN")
	if err != nil {
		t.Fatalf("JID error: %v", err)
	}
	if got != "919876543210@s.whatsapp.net" {
		t.Errorf("JID = %q", got)
	}

	if _, err := JID("12", "IN"); err == nil {
		t.Error("short number should be rejected")
	}
}

func TestSendTextMessage(t *testing.T) {
	var received SendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dev/send/message" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "u" || pass != "p" {
			t.Errorf("basic auth = %q/%q/%v", user, pass, ok)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte(`{"success":true,"message":"ok","data":{"message_id":"m1","status":"sent"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "u", "p", "dev", "IN")
	resp, err := c.SendTextMessage(context.Background(), "+91 98765 43210", "hello")
	if err != nil {
		t.Fatalf("SendTextMessage error: %v", err)
	}
	if resp.Data.MessageID != "m1" {
		t.Errorf("MessageID = %q", resp.Data.MessageID)
	}
	if received.Phone != "919876543210@s.whatsapp.net" || received.Message != "hello" {
		t.Errorf("request = %+v", received)
	}
}

func TestSendTextMessageGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "u", "p", "dev", "IN")
	if _, err := c.SendTextMessage(context.Background(), "9876543210", "hello"); err == nil {
		t.Error("expected error on 502")
	}
}
