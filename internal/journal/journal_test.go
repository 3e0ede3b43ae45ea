package journal

import (
	"testing"
	"time"
)

func TestAppendAndRead(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	st := NewStore()

	if err := st.Append(Event{Host: "hostA", Container: "web", Action: "attach"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := st.Append(Event{Host: "hostB", Action: "init", Message: "3 containers"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := st.Read(Query{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Timestamp.IsZero() {
		t.Fatal("timestamp should be stamped on append")
	}
}

func TestReadFilters(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	st := NewStore()
	for _, evt := range []Event{
		{Host: "hostA", Action: "init"},
		{Host: "hostA", Action: "attach"},
		{Host: "hostB", Action: "forward"},
	} {
		if err := st.Append(evt); err != nil {
			t.Fatal(err)
		}
	}

	got, err := st.Read(Query{Host: "hostA"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hostA events, got %d", len(got))
	}

	got, err = st.Read(Query{Action: "forward"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Host != "hostB" {
		t.Fatalf("unexpected forward events: %+v", got)
	}
}

func TestReadLimitKeepsMostRecent(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	st := NewStore()
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		if err := st.Append(Event{Host: "hostA", Action: "init", Timestamp: base.Add(time.Duration(i) * time.Second), Message: string(rune('a' + i))}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := st.Read(Query{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Message != "d" || got[1].Message != "e" {
		t.Fatalf("expected the two most recent events, got %+v", got)
	}
}

func TestReadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	got, err := NewStore().Read(Query{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil events, got %+v", got)
	}
}
