package queue

import "testing"

func TestGetNatsQueueInfo(t *testing.T) {
	stream, subject := getNatsQueueInfo(QueueOpts{Stream: "TradeDesk", Subject: "Imports"})
	if stream != "tradedesk" {
		t.Fatalf("unexpected stream: %s", stream)
	}
	if subject != "tradedesk.imports.*" {
		t.Fatalf("unexpected subject: %s", subject)
	}
}

func TestGetNatsPublishSubject(t *testing.T) {
	cases := map[string]string{
		"":      "tradedesk.imports.default",
		"Org-1": "tradedesk.imports.org-1",
	}
	for key, expected := range cases {
		if got := getNatsPublishSubject(ImportJobs, key); got != expected {
			t.Errorf("key[%s]: expected %s, got %s", key, expected, got)
		}
	}
}

func TestGetNatsStreamOptsOverrides(t *testing.T) {
	opts := getNatsStreamOpts(ImportJobs, &StreamOpts{MaxMessagesCount: 10})
	if opts.MaxMessagesCount != 10 {
		t.Fatalf("expected override to apply, got %v", opts.MaxMessagesCount)
	}
	if opts.MaxSizeBytes != DefaultNatsMaxSizeBytes {
		t.Fatalf("expected default size, got %v", opts.MaxSizeBytes)
	}
}

func TestSubscribeWithoutClient(t *testing.T) {
	n := &Nats{ServiceLogs: nil}
	if err := n.Subscribe(SubscribeOpts{}); err == nil {
		t.Fatalf("expected an error without a client")
	}
}
