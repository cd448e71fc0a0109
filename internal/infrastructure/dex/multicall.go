package dex

import (
	"context"
	"fmt"
	"math/big"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/arbiscan/internal/infrastructure/rpc"
)

// Multicall3Address is the canonical, identically-deployed Multicall3
// contract address shared by almost every EVM chain.
var Multicall3Address = common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11")

// aggregate3((address,bool,bytes)[]) returns ((bool,bytes)[])
var aggregate3Selector = common.Hex2Bytes("82ad56cb")

// Call is one leg of a Multicall3 batch: a contract call whose failure,
// if AllowFailure is set, does not revert the whole batch.
type Call struct {
	Target       common.Address
	AllowFailure bool
	CallData     []byte
}

// CallResult is one leg's outcome.
type CallResult struct {
	Success    bool
	ReturnData []byte
}

// Multicall batches many read-only calls into a single eth_call against
// Multicall3.aggregate3, grounded on the distilled source's
// core/network/multicall.py Multicall class.
type Multicall struct {
	transport *rpc.Transport
	address   common.Address
}

// NewMulticall builds a Multicall batcher against the canonical address.
// Pass an override address for chains that deployed it elsewhere.
func NewMulticall(transport *rpc.Transport, address *common.Address) *Multicall {
	addr := Multicall3Address
	if address != nil {
		addr = *address
	}
	return &Multicall{transport: transport, address: addr}
}

// Aggregate executes every call in one batch and returns one CallResult
// per input call, in order. A call with AllowFailure=false that reverts
// fails the whole batch; set AllowFailure=true (the common case for
// speculative reserve/quote probes) to get a per-call Success flag
// instead.
func (m *Multicall) Aggregate(ctx context.Context, calls []Call) ([]CallResult, error) {
	if len(calls) == 0 {
		return nil, nil
	}

	data, err := encodeAggregate3(calls)
	if err != nil {
		return nil, fmt.Errorf("multicall: encode: %w", err)
	}

	result, err := m.transport.CallContract(ctx, goethereum.CallMsg{
		To:   &m.address,
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("multicall: call: %w", err)
	}

	return decodeAggregate3(result, len(calls))
}

// encodeAggregate3 ABI-encodes aggregate3((address,bool,bytes)[]).
// Each Call3 struct is (address target, bool allowFailure, bytes callData);
// the array itself is dynamic, so the head carries one offset word and the
// tail carries the encoded tuples, each with its own offset for the
// dynamic `bytes` field.
func encodeAggregate3(calls []Call) ([]byte, error) {
	n := len(calls)

	// Per-element encoded tuple bodies (each a fixed head + dynamic tail).
	elements := make([][]byte, n)
	for i, c := range calls {
		elements[i] = encodeCall3(c)
	}

	// Array head: offset-to-array (always 0x20 relative to the arg block),
	// then array length, then one offset per element (relative to the
	// start of the array's data section, i.e. right after the length word).
	headWords := 2 + n // [array offset][array length][n element offsets]
	argsOffset := 32 * headWords

	buf := make([]byte, 0, 4+headWords*32+argsOffset)
	buf = append(buf, aggregate3Selector...)
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

	return buf, nil
}

// encodeCall3 ABI-encodes one (address,bool,bytes) tuple as a standalone
// dynamic element: head words for target/allowFailure/offset-to-bytes,
// followed by the bytes length and padded contents.
func encodeCall3(c Call) []byte {
	head := make([]byte, 0, 96)
	head = append(head, leftPad32Address(c.Target)...)
	head = append(head, leftPad32Bool(c.AllowFailure)...)
	head = append(head, leftPad32(big.NewInt(96))...) // offset to callData, relative to tuple start

	tail := encodeBytes(c.CallData)
	return append(head, tail...)
}

func encodeBytes(b []byte) []byte {
	out := leftPad32(big.NewInt(int64(len(b))))
	out = append(out, b...)
	if rem := len(b) % 32; rem != 0 {
		out = append(out, make([]byte, 32-rem)...)
	}
	return out
}

func leftPad32(v *big.Int) []byte {
	word := make([]byte, 32)
	v.FillBytes(word)
	return word
}

func leftPad32Address(a common.Address) []byte {
	word := make([]byte, 32)
	copy(word[12:], a.Bytes())
	return word
}

func leftPad32Bool(b bool) []byte {
	word := make([]byte, 32)
	if b {
		word[31] = 1
	}
	return word
}

// decodeAggregate3 parses the (bool,bytes)[] return value: a head offset,
// a count, one offset per element, then each element's (bool, bytes) body.
func decodeAggregate3(result []byte, expected int) ([]CallResult, error) {
	if len(result) < 64 {
		return nil, fmt.Errorf("multicall: response too short")
	}

	arrOffset := new(big.Int).SetBytes(result[0:32]).Int64()
	if int(arrOffset)+32 > len(result) {
		return nil, fmt.Errorf("multicall: invalid array offset")
	}

	count := new(big.Int).SetBytes(result[arrOffset : arrOffset+32]).Int64()
	if int(count) != expected {
		return nil, fmt.Errorf("multicall: expected %d results, got %d", expected, count)
	}

	elementsStart := arrOffset + 32
	results := make([]CallResult, count)

	for i := int64(0); i < count; i++ {
		offsetPos := elementsStart + i*32
		if int(offsetPos)+32 > len(result) {
			return nil, fmt.Errorf("multicall: truncated element offset table")
		}
		elOffset := elementsStart + new(big.Int).SetBytes(result[offsetPos:offsetPos+32]).Int64()

		if int(elOffset)+64 > len(result) {
			return nil, fmt.Errorf("multicall: truncated element")
		}
		success := result[elOffset+31] != 0
		dataOffset := elOffset + new(big.Int).SetBytes(result[elOffset+32:elOffset+64]).Int64()

		if int(dataOffset)+32 > len(result) {
			return nil, fmt.Errorf("multicall: truncated element data")
		}
		dataLen := new(big.Int).SetBytes(result[dataOffset : dataOffset+32]).Int64()
		dataStart := dataOffset + 32
		if int(dataStart+dataLen) > len(result) {
			return nil, fmt.Errorf("multicall: truncated element payload")
		}

		results[i] = CallResult{
			Success:    success,
			ReturnData: result[dataStart : dataStart+dataLen],
		}
	}

	return results, nil
}
