/*
 * classplanner - a profiler class-instrumentation planner
 */

package editor

import (
	"bytes"
	"errors"
	"testing"
)

func TestPassthroughEditorCopiesBuffer(t *testing.T) {
	orig := []byte{1, 2, 3}
	res, err := PassthroughEditor{}.Inject(Request{OriginalInfo: orig})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(res.ModifiedInfo, orig) {
		t.Errorf("ModifiedInfo = %v, want %v", res.ModifiedInfo, orig)
	}
	orig[0] = 9
	if res.ModifiedInfo[0] == 9 {
		t.Error("PassthroughEditor must copy, not alias, the original buffer")
	}
}

func TestRefusingEditorRefusesNamedMethods(t *testing.T) {
	e := RefusingEditor{Refuse: map[string]bool{"badMethod": true}}
	_, err := e.Inject(Request{ClassName: "com/app/X", MethodName: "badMethod", Descriptor: "()V"})
	if !errors.Is(err, ErrRefused) {
		t.Errorf("expected ErrRefused, got %v", err)
	}
	res, err := e.Inject(Request{MethodName: "okMethod", OriginalInfo: []byte{7}})
	if err != nil {
		t.Fatalf("unexpected refusal: %v", err)
	}
	if len(res.ModifiedInfo) != 1 || res.ModifiedInfo[0] != 7 {
		t.Errorf("ModifiedInfo = %v, want [7]", res.ModifiedInfo)
	}
}

func TestGlobalCatchEditorReportsHandlerEnd(t *testing.T) {
	orig := []byte{1, 2, 3, 4}
	res, err := GlobalCatchEditor{}.Inject(Request{OriginalInfo: orig})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.AddedGlobalCatch {
		t.Fatal("GlobalCatchEditor must report AddedGlobalCatch")
	}
	if res.GlobalCatchEndPC != len(orig) {
		t.Errorf("GlobalCatchEndPC = %d, want %d", res.GlobalCatchEndPC, len(orig))
	}
	if !bytes.Equal(res.ModifiedInfo, orig) {
		t.Errorf("ModifiedInfo = %v, want %v", res.ModifiedInfo, orig)
	}
}
