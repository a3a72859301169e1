package importer

import "testing"

func TestRegistry(t *testing.T) {
	Clear()
	defer Clear()

	Register(ParseConfig{Key: "beta", Label: "Beta"})
	Register(ParseConfig{Key: "alpha", Label: "Alpha"})

	if Count() != 2 {
		t.Errorf("count = %d, want 2", Count())
	}

	cfg, ok := Get("alpha")
	if !ok || cfg.Label != "Alpha" {
		t.Errorf("Get(alpha) = %+v, %v", cfg, ok)
	}
	if _, ok := Get("gamma"); ok {
		t.Error("Get(gamma) should report not found")
	}

	all := All()
	if len(all) != 2 || all[0].Key != "alpha" || all[1].Key != "beta" {
		t.Errorf("All() not sorted by key: %v", all)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Clear()
	defer Clear()

	Register(ParseConfig{Key: "dup"})

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate key")
		}
	}()
	Register(ParseConfig{Key: "dup"})
}

func TestRegisterEmptyKeyPanics(t *testing.T) {
	Clear()
	defer Clear()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on empty key")
		}
	}()
	Register(ParseConfig{})
}
