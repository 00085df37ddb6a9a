package xobj

import "testing"

// TestHarvestSkipsAbsoluteSymbol covers spec scenario S3: a relocation
// whose referent resolves to the SHN_ABS pseudo-section is dropped, while
// a relocation against an ordinary data symbol survives and is reported
// at its image-relative (not section-relative) offset.
func TestHarvestSkipsAbsoluteSymbol(t *testing.T) {
	f := openFixture(t)
	cls, err := Classify(f)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	relocs, err := Harvest(f, cls)
	if err != nil {
		t.Fatalf("Harvest: %v", err)
	}

	if len(relocs) != 1 {
		t.Fatalf("len(relocs) = %d, want 1 (the SHN_ABS entry must be dropped)", len(relocs))
	}
	if relocs[0] != 4 {
		t.Errorf("relocs[0] = %d, want 4 (0x1004 - text start 0x1000)", relocs[0])
	}
}

func TestTransformSymbolsSkipsAbsolute(t *testing.T) {
	f := openFixture(t)
	cls, err := Classify(f)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	syms, err := TransformSymbols(f, cls)
	if err != nil {
		t.Fatalf("TransformSymbols: %v", err)
	}

	if len(syms) != 1 {
		t.Fatalf("len(syms) = %d, want 1 (abs_sym must be dropped)", len(syms))
	}
	s := syms[0]
	if s.Name != "target" {
		t.Errorf("Name = %q, want %q", s.Name, "target")
	}
	if s.Location != XSymExternal {
		t.Errorf("Location = %d, want %d (external/global)", s.Location, XSymExternal)
	}
	if s.Section != XSecData {
		t.Errorf("Section = %d, want %d", s.Section, XSecData)
	}
	if s.Value != 0x2000 {
		t.Errorf("Value = 0x%x, want 0x2000", s.Value)
	}
}

func TestEncodeXSymbolsPadding(t *testing.T) {
	syms := []XSymbol{{Location: XSymExternal, Section: XSecData, Value: 0x2000, Name: "target"}}
	rec := EncodeXSymbols(syms)

	// location(1) + section(1) + value(4) + "target"(6) + 2 NUL pad = 14
	if len(rec) != 14 {
		t.Fatalf("len(rec) = %d, want 14", len(rec))
	}
	if rec[0] != XSymExternal || rec[1] != XSecData {
		t.Errorf("header bytes = %d,%d", rec[0], rec[1])
	}
	if rec[2] != 0 || rec[3] != 0 || rec[4] != 0x20 || rec[5] != 0 {
		t.Errorf("value bytes = % x, want 00 00 20 00", rec[2:6])
	}
	if string(rec[6:12]) != "target" {
		t.Errorf("name bytes = %q, want %q", rec[6:12], "target")
	}
	if rec[12] != 0 || rec[13] != 0 {
		t.Errorf("padding bytes = % x, want 00 00", rec[12:14])
	}
}
