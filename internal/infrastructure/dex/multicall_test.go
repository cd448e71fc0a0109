package dex

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestEncodeAggregate3Selector(t *testing.T) {
	calls := []Call{
		{Target: common.HexToAddress("0x1"), AllowFailure: true, CallData: []byte{0xaa, 0xbb}},
	}
	data, err := encodeAggregate3(calls)
	if err != nil {
		t.Fatalf("encodeAggregate3() error = %v", err)
	}
	if !bytes.Equal(data[:4], aggregate3Selector) {
		t.Errorf("encodeAggregate3() selector = %x, want %x", data[:4], aggregate3Selector)
	}
}

func TestEncodeAggregate3ArrayLength(t *testing.T) {
	calls := []Call{
		{Target: common.HexToAddress("0x1"), CallData: []byte{0x01}},
		{Target: common.HexToAddress("0x2"), CallData: []byte{0x02}},
		{Target: common.HexToAddress("0x3"), CallData: []byte{0x03}},
	}
	data, err := encodeAggregate3(calls)
	if err != nil {
		t.Fatalf("encodeAggregate3() error = %v", err)
	}

	// [4:36] is the offset-to-array word (always 0x20), [36:68] is length.
	arrOffset := new(big.Int).SetBytes(data[4:36]).Int64()
	if arrOffset != 32 {
		t.Errorf("array offset = %d, want 32", arrOffset)
	}
	length := new(big.Int).SetBytes(data[4+32 : 4+64]).Int64()
	if length != int64(len(calls)) {
		t.Errorf("array length = %d, want %d", length, len(calls))
	}
}

func TestEncodeCall3RoundTripsTarget(t *testing.T) {
	target := common.HexToAddress("0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	c := Call{Target: target, AllowFailure: true, CallData: []byte{0x12, 0x34, 0x56}}
	el := encodeCall3(c)

	gotAddr := common.BytesToAddress(el[0:32])
	if gotAddr != target {
		t.Errorf("encodeCall3() target = %v, want %v", gotAddr, target)
	}
	allowFailure := el[63] != 0
	if !allowFailure {
		t.Error("encodeCall3() allowFailure word decoded false, want true")
	}
}

// buildAggregate3Response hand-encodes a (bool,bytes)[] return value the
// same way a real Multicall3.aggregate3 call would, so decodeAggregate3 can
// be exercised without a live RPC endpoint.
func buildAggregate3Response(results []CallResult) []byte {
	n := len(results)
	elements := make([][]byte, n)
	for i, r := range results {
		head := make([]byte, 0, 64)
		head = append(head, leftPad32Bool(r.Success)...)
		head = append(head, leftPad32(big.NewInt(64))...)
		elements[i] = append(head, encodeBytes(r.ReturnData)...)
	}

	var buf []byte
	buf = append(buf, leftPad32(big.NewInt(32))...) // offset to array data
	buf = append(buf, leftPad32(big.NewInt(int64(n)))...)

	runningOffset := int64(n * 32)
	for _, el := range elements {
		buf = append(buf, leftPad32(big.NewInt(runningOffset))...)
		runningOffset += int64(len(el))
	}
	for _, el := range elements {
		buf = append(buf, el...)
	}
	return buf
}

func TestDecodeAggregate3RoundTrip(t *testing.T) {
	want := []CallResult{
		{Success: true, ReturnData: []byte{0x01, 0x02, 0x03}},
		{Success: false, ReturnData: []byte{}},
		{Success: true, ReturnData: bytes.Repeat([]byte{0xff}, 40)},
	}

	resp := buildAggregate3Response(want)
	got, err := decodeAggregate3(resp, len(want))
	if err != nil {
		t.Fatalf("decodeAggregate3() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("decodeAggregate3() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Success != want[i].Success {
			t.Errorf("result[%d].Success = %v, want %v", i, got[i].Success, want[i].Success)
		}
		if !bytes.Equal(got[i].ReturnData, want[i].ReturnData) {
			t.Errorf("result[%d].ReturnData = %x, want %x", i, got[i].ReturnData, want[i].ReturnData)
		}
	}
}

func TestDecodeAggregate3CountMismatch(t *testing.T) {
	resp := buildAggregate3Response([]CallResult{{Success: true, ReturnData: []byte{0x01}}})
	if _, err := decodeAggregate3(resp, 2); err == nil {
		t.Error("decodeAggregate3() with a mismatched expected count returned no error")
	}
}

func TestDecodeAggregate3TooShort(t *testing.T) {
	if _, err := decodeAggregate3([]byte{0x01, 0x02}, 1); err == nil {
		t.Error("decodeAggregate3() on a too-short response returned no error")
	}
}

func TestAggregateEmptyCallsReturnsNil(t *testing.T) {
	m := &Multicall{}
	results, err := m.Aggregate(nil, nil)
	if err != nil {
		t.Fatalf("Aggregate() with no calls error = %v", err)
	}
	if results != nil {
		t.Errorf("Aggregate() with no calls = %v, want nil", results)
	}
}
