package dvm

import "testing"

func TestDecodeOpcodeTotal(t *testing.T) {
	for _, op := range AllOpcodes {
		got, err := DecodeOpcode(byte(op))
		if err != nil {
			t.Fatalf("DecodeOpcode(0x%02x) returned error: %v", byte(op), err)
		}
		if got != op {
			t.Errorf("DecodeOpcode(0x%02x) = %v, want %v", byte(op), got, op)
		}
	}
}

func TestDecodeOpcodeRejectsUnknown(t *testing.T) {
	known := make(map[byte]bool, len(AllOpcodes))
	for _, op := range AllOpcodes {
		known[byte(op)] = true
	}
	for b := 0; b < 256; b++ {
		if known[byte(b)] {
			continue
		}
		if IsValidOpcode(byte(b)) {
			t.Fatalf("IsValidOpcode(0x%02x) = true for a byte outside the closed set", b)
		}
		if _, err := DecodeOpcode(byte(b)); err == nil {
			t.Fatalf("DecodeOpcode(0x%02x) did not return an error", b)
		}
	}
}

func TestAllOpcodesHaveInfo(t *testing.T) {
	for _, op := range AllOpcodes {
		info, err := op.Info()
		if err != nil {
			t.Fatalf("Info() for %v returned error: %v", op, err)
		}
		if info.Opcode != op {
			t.Errorf("Info().Opcode = %v, want %v", info.Opcode, op)
		}
		if info.ReadsRequired < 0 || info.ReadsRequired > MaxReads {
			t.Errorf("opcode %v has out-of-range ReadsRequired %d", op, info.ReadsRequired)
		}
	}
}

func TestMinStackDepth(t *testing.T) {
	if got := Add.MinStackDepth(); got != MaxReads+2 {
		t.Errorf("Add.MinStackDepth() = %d, want %d", got, MaxReads+2)
	}
	if got := Stop.MinStackDepth(); got != MaxReads {
		t.Errorf("Stop.MinStackDepth() = %d, want %d", got, MaxReads)
	}
}
