package mqueue

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// EventRecord is the fixed-layout payload a Notification Worker posts and a
// Sink decodes. PathName is the already-proc-resolved path the kernel
// reported against; FileName is the optional child name inotify supplies
// for directory-scoped events (create/delete/move).
type EventRecord struct {
	EventMask uint32
	IsDir     bool
	PathName  string
	FileName  string
}

// EncodeEventRecord packs a record into the fixed layout used on the wire
// to the message queue: a 4-byte mask, a 1-byte dir flag, then two
// length-prefixed strings.
func EncodeEventRecord(ev EventRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, ev.EventMask); err != nil {
		return nil, err
	}
	var isDir byte
	if ev.IsDir {
		isDir = 1
	}
	buf.WriteByte(isDir)
	if err := writeLPString(&buf, ev.PathName); err != nil {
		return nil, err
	}
	if err := writeLPString(&buf, ev.FileName); err != nil {
		return nil, err
	}
	if buf.Len() > MQMaxSize {
		return nil, fmt.Errorf("mqueue: encoded event record %d bytes exceeds MQMaxSize", buf.Len())
	}
	return buf.Bytes(), nil
}

// DecodeEventRecord is the inverse of EncodeEventRecord.
func DecodeEventRecord(payload []byte) (EventRecord, error) {
	buf := bytes.NewReader(payload)
	var ev EventRecord

	if err := binary.Read(buf, binary.LittleEndian, &ev.EventMask); err != nil {
		return ev, fmt.Errorf("mqueue: decode mask: %w", err)
	}
	isDir, err := buf.ReadByte()
	if err != nil {
		return ev, fmt.Errorf("mqueue: decode dir flag: %w", err)
	}
	ev.IsDir = isDir != 0

	if ev.PathName, err = readLPString(buf); err != nil {
		return ev, fmt.Errorf("mqueue: decode path: %w", err)
	}
	if ev.FileName, err = readLPString(buf); err != nil {
		return ev, fmt.Errorf("mqueue: decode file: %w", err)
	}
	return ev, nil
}

func writeLPString(buf *bytes.Buffer, s string) error {
	if err := binary.Write(buf, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := buf.WriteString(s)
	return err
}

func readLPString(buf *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(buf, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(buf, out); err != nil {
		return "", err
	}
	return string(out), nil
}
