package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mempoolScope/internal/model"
)

func TestJsonlJournalAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.jsonl")
	journal := NewJsonlJournal(path)

	events := []model.ClassifiedEvent{
		{TxHash: "0x01", Direction: model.DirectionBuy, NativeWei: "100", ObservedAt: time.Unix(1700000000, 0).UTC()},
		{TxHash: "0x02", Direction: model.DirectionSell, NativeWei: "200", ObservedAt: time.Unix(1700000001, 0).UTC()},
	}
	for _, event := range events {
		if err := journal.Append(event); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer file.Close()

	var got []model.ClassifiedEvent
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var event model.ClassifiedEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		got = append(got, event)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got))
	}
	if got[0].TxHash != "0x01" || got[1].TxHash != "0x02" {
		t.Fatalf("journal order mismatch: %+v", got)
	}
	if got[1].Direction != model.DirectionSell {
		t.Fatalf("direction mismatch: %+v", got[1])
	}
}
