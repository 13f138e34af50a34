package kernel

import (
	"errors"
	"testing"

	"github.com/kwv/rgbdicp/rerr"
)

func TestScanS5Scenario(t *testing.T) {
	in := [][]int32{{1, 2, 3, 4, 5, 6, 7, 8}}

	inc, err := InclusiveScanI32(in)
	if err != nil {
		t.Fatal(err)
	}
	wantInc := []int32{1, 3, 6, 10, 15, 21, 28, 36}
	for i, v := range wantInc {
		if inc[0][i] != v {
			t.Fatalf("inclusive[%d] = %d, want %d", i, inc[0][i], v)
		}
	}

	exc, err := ExclusiveScanI32(in)
	if err != nil {
		t.Fatal(err)
	}
	wantExc := []int32{0, 1, 3, 6, 10, 15, 21, 28}
	for i, v := range wantExc {
		if exc[0][i] != v {
			t.Fatalf("exclusive[%d] = %d, want %d", i, exc[0][i], v)
		}
	}
}

func TestInclusiveScanLastEqualsReduceSum(t *testing.T) {
	row := make([]int32, 512)
	var want int32
	for i := range row {
		row[i] = int32(i%13) - 6
		want += row[i]
	}
	out, err := InclusiveScanI32([][]int32{row})
	if err != nil {
		t.Fatal(err)
	}
	if got := out[0][len(out[0])-1]; got != want {
		t.Fatalf("inclusive_scan(x)[n-1] = %d, want reduce_sum(x) = %d", got, want)
	}
}

func TestScanSpansMultipleBlocks(t *testing.T) {
	n := blockElems*3 + 4
	row := make([]int32, n)
	for i := range row {
		row[i] = 1
	}
	out, err := InclusiveScanI32([][]int32{row})
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out[0] {
		if v != int32(i+1) {
			t.Fatalf("at %d: got %d want %d", i, v, i+1)
		}
	}
}

func TestScanRejectsInvalidShape(t *testing.T) {
	_, err := InclusiveScanI32([][]int32{{1, 2}})
	if !errors.Is(err, rerr.ErrInvalidShape) {
		t.Fatalf("expected ErrInvalidShape, got %v", err)
	}
}
