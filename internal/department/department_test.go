package department

import "testing"

func TestColor(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"IT局":   0x008736,
		"ステージ局": 0xc70000,
		"全局":    0x000000,
		"":      DefaultColor,
		"不明局":   DefaultColor,
	}
	for name, want := range cases {
		if got := Color(name); got != want {
			t.Fatalf("Color(%q) = %#06x, want %#06x", name, got, want)
		}
	}
}

func TestNamesCoverColorTable(t *testing.T) {
	t.Parallel()

	got := Names()
	if len(got) != len(colors) {
		t.Fatalf("Names() has %d entries, colour table has %d", len(got), len(colors))
	}
	for _, name := range got {
		if !Known(name) {
			t.Fatalf("%q listed but has no colour", name)
		}
	}
	got[0] = "changed"
	if Names()[0] != "全局" {
		t.Fatal("Names must return a copy")
	}
}

func TestDirectoryLookup(t *testing.T) {
	t.Parallel()

	dir := NewDirectory(
		map[string]string{"IT局": "111", " 広報局 ": " 222 ", "空": ""},
		map[string]string{"IT局": "999"},
	)

	e := dir.Lookup("IT局")
	if e.ChannelID != "111" || e.RoleID != "999" || e.Color != 0x008736 {
		t.Fatalf("Lookup(IT局) = %+v", e)
	}
	if id, ok := dir.Channel("広報局"); !ok || id != "222" {
		t.Fatalf("Channel(広報局) = %q, %v", id, ok)
	}
	if _, ok := dir.Channel("空"); ok {
		t.Fatal("blank channel ids must be dropped")
	}
	if _, ok := dir.Role("広報局"); ok {
		t.Fatal("広報局 has no role")
	}
	if _, ok := dir.Channel(""); ok {
		t.Fatal("empty department never resolves")
	}

	var nilDir *Directory
	if _, ok := nilDir.Role("IT局"); ok {
		t.Fatal("nil directory resolves nothing")
	}
}
