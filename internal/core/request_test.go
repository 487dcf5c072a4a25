package core

import "testing"

func chatRequestOptions(t *testing.T, options map[string]any) *RequestOptions {
	t.Helper()
	purpose, ok := PurposeByName(PurposeChat)
	if !ok {
		t.Fatal("chat purpose missing")
	}
	return NewRequestOptions(purpose, RequestContext{ID: 5}, "forum", options)
}

func TestSanitizeAcceptsKnownOptions(t *testing.T) {
	opts := chatRequestOptions(t, map[string]any{
		OptionItemID:         "item-1",
		OptionForceNewItemID: true,
		OptionConversation:   []any{map[string]any{"sender": "user", "message": "hi"}},
	})
	if err := opts.Sanitize(); err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	if !opts.Sanitized() {
		t.Error("options should be marked sanitized")
	}
}

func TestSanitizeRejectsUnknownOption(t *testing.T) {
	opts := chatRequestOptions(t, map[string]any{"temperature": 0.7})
	if err := opts.Sanitize(); err == nil {
		t.Error("unknown option must be rejected")
	}
	if opts.Sanitized() {
		t.Error("rejected options must not be marked sanitized")
	}
}

func TestSanitizeTypeChecks(t *testing.T) {
	ragPurpose, ok := PurposeByName(PurposeRAG)
	if !ok {
		t.Fatal("rag purpose missing")
	}
	cases := []struct {
		name    string
		options map[string]any
		wantErr bool
	}{
		{"string ok", map[string]any{OptionAction: "retrieve"}, false},
		{"string wrong type", map[string]any{OptionAction: 3}, true},
		{"bool wrong type", map[string]any{OptionForceNewItemID: "yes"}, true},
		// JSON 解碼的整數是 float64，只要無小數部分就接受
		{"int as float64", map[string]any{OptionTopK: float64(7)}, false},
		{"int with fraction", map[string]any{OptionTopK: 7.5}, true},
		{"int native", map[string]any{OptionTopK: 7}, false},
		{"map ok", map[string]any{OptionDocument: map[string]any{"title": "x"}}, false},
		{"map wrong type", map[string]any{OptionDocument: "not a map"}, true},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			opts := NewRequestOptions(ragPurpose, RequestContext{ID: 1}, "indexer", testCase.options)
			err := opts.Sanitize()
			if testCase.wantErr && err == nil {
				t.Error("expected a sanitize error")
			}
			if !testCase.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestOptionsReturnsCopy(t *testing.T) {
	opts := chatRequestOptions(t, map[string]any{OptionItemID: "item-1"})
	copied := opts.Options()
	copied[OptionItemID] = "mutated"

	if value, _ := opts.Option(OptionItemID); value != "item-1" {
		t.Errorf("internal options mutated through copy: %v", value)
	}
}

func TestIntOptionCoercions(t *testing.T) {
	opts := chatRequestOptions(t, map[string]any{
		"a": 3,
		"b": int64(4),
		"c": float64(5),
		"d": "six",
	})
	if got := opts.IntOption("a", 0); got != 3 {
		t.Errorf("int = %d, want 3", got)
	}
	if got := opts.IntOption("b", 0); got != 4 {
		t.Errorf("int64 = %d, want 4", got)
	}
	if got := opts.IntOption("c", 0); got != 5 {
		t.Errorf("float64 = %d, want 5", got)
	}
	if got := opts.IntOption("d", 9); got != 9 {
		t.Errorf("non-number must fall back, got %d", got)
	}
	if got := opts.IntOption("missing", 2); got != 2 {
		t.Errorf("missing must fall back, got %d", got)
	}
}

func TestPurposeFormat(t *testing.T) {
	ragPurpose, _ := PurposeByName(PurposeRAG)
	if got := ragPurpose.Format("  {\"hits\":[]} \n"); got != "{\"hits\":[]}" {
		t.Errorf("rag format should trim, got %q", got)
	}
	chatPurpose, _ := PurposeByName(PurposeChat)
	if got := chatPurpose.Format("  as is  "); got != "  as is  " {
		t.Errorf("chat format must be identity, got %q", got)
	}
}
