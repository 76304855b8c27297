package mqueue

import "testing"

func TestEncodeDecodeEventRecordRoundTrip(t *testing.T) {
	in := EventRecord{
		EventMask: 0x20, // IN_OPEN
		IsDir:     true,
		PathName:  "/proc/4242/root/etc",
		FileName:  "passwd",
	}
	encoded, err := EncodeEventRecord(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeEventRecord(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v want %+v", out, in)
	}
}

func TestMemQueueSendReceive(t *testing.T) {
	q := NewMemQueue()
	defer q.Close()

	if err := q.Send([]byte("hello"), 0, mqTestTimeout); err != nil {
		t.Fatalf("send: %v", err)
	}
	got, err := q.Receive(mqTestTimeout)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q want %q", got, "hello")
	}
}

func TestMemQueueReceiveAfterCloseErrors(t *testing.T) {
	q := NewMemQueue()
	q.Close()
	if _, err := q.Receive(mqTestTimeout); err != ErrClosed {
		t.Fatalf("got %v want ErrClosed", err)
	}
}
