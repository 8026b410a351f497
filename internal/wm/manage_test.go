package wm

import (
	"reflect"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestConfigureValuesOrdersByMask(t *testing.T) {
	e := xproto.ConfigureRequestEvent{
		ValueMask: xproto.ConfigWindowWidth | xproto.ConfigWindowX | xproto.ConfigWindowStackMode,
		X:         10,
		Width:     200,
		StackMode: xproto.StackModeAbove,
	}
	got := configureValues(e)
	want := []uint32{10, 200, uint32(xproto.StackModeAbove)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("configureValues = %v, want %v", got, want)
	}
}

func TestConfigureValuesEmptyMask(t *testing.T) {
	e := xproto.ConfigureRequestEvent{}
	if got := configureValues(e); got != nil {
		t.Fatalf("configureValues with no mask bits set = %v, want nil", got)
	}
}
