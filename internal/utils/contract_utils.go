package utils

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ParseABI parses a JSON ABI definition
func ParseABI(abiJSON string) (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return parsed, nil
}

// EncodeContractConstructorArgs coerces args to the constructor input types and ABI encodes them
func EncodeContractConstructorArgs(parsedABI abi.ABI, args []any) ([]byte, error) {
	inputs := parsedABI.Constructor.Inputs
	if len(inputs) == 0 && len(args) == 0 {
		return []byte{}, nil
	}

	coerced, err := CoerceConstructorArgs(parsedABI, args)
	if err != nil {
		return nil, err
	}

	encoded, err := inputs.Pack(coerced...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}
	return encoded, nil
}

// CoerceConstructorArgs converts loosely typed values (strings, ints) into the Go types the ABI packer expects
func CoerceConstructorArgs(parsedABI abi.ABI, args []any) ([]any, error) {
	inputs := parsedABI.Constructor.Inputs
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("contract constructor requires %d arguments, got %d", len(inputs), len(args))
	}

	coerced := make([]any, len(args))
	for i, input := range inputs {
		v, err := coerceArg(input.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("failed to process argument %d (%s): %w", i, input.Name, err)
		}
		coerced[i] = v
	}
	return coerced, nil
}

// NamedConstructorArgs pairs each argument with its ABI input name, falling back to argN for unnamed inputs
func NamedConstructorArgs(parsedABI abi.ABI, args []any) map[string]any {
	named := make(map[string]any, len(args))
	for i, arg := range args {
		key := fmt.Sprintf("arg%d", i)
		if i < len(parsedABI.Constructor.Inputs) && parsedABI.Constructor.Inputs[i].Name != "" {
			key = parsedABI.Constructor.Inputs[i].Name
		}
		if b, ok := arg.(*big.Int); ok {
			arg = b.String()
		}
		named[key] = arg
	}
	return named
}

func coerceArg(argType abi.Type, value any) (any, error) {
	switch argType.T {
	case abi.AddressTy:
		return toAddress(value)
	case abi.UintTy, abi.IntTy:
		n, err := toBigInt(value)
		if err != nil {
			return nil, err
		}
		return narrowInt(argType, n)
	case abi.BoolTy:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			return strings.EqualFold(v, "true"), nil
		}
		return nil, fmt.Errorf("unsupported bool type: %T", value)
	case abi.StringTy:
		if v, ok := value.(string); ok {
			return v, nil
		}
		return nil, fmt.Errorf("unsupported string type: %T", value)
	case abi.BytesTy:
		return toBytes(value)
	case abi.FixedBytesTy:
		raw, err := toBytes(value)
		if err != nil {
			return nil, err
		}
		if len(raw) != argType.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", argType.Size, len(raw))
		}
		fixed := reflect.New(argType.GetType()).Elem()
		reflect.Copy(fixed, reflect.ValueOf(raw))
		return fixed.Interface(), nil
	case abi.SliceTy, abi.ArrayTy:
		items, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("expected array, got %T", value)
		}
		out := reflect.MakeSlice(reflect.SliceOf(argType.Elem.GetType()), len(items), len(items))
		for i, item := range items {
			v, err := coerceArg(*argType.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("failed to process array element %d: %w", i, err)
			}
			out.Index(i).Set(reflect.ValueOf(v))
		}
		if argType.T == abi.ArrayTy {
			arr := reflect.New(argType.GetType()).Elem()
			reflect.Copy(arr, out)
			return arr.Interface(), nil
		}
		return out.Interface(), nil
	}
	return nil, fmt.Errorf("unsupported argument type: %v", argType)
}

func toAddress(value any) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case string:
		if !common.IsHexAddress(v) {
			return common.Address{}, fmt.Errorf("invalid address: %s", v)
		}
		return common.HexToAddress(v), nil
	}
	return common.Address{}, fmt.Errorf("unsupported address type: %T", value)
}

func toBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return v, nil
	case string:
		return parseBigInt(v)
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		return big.NewInt(int64(v)), nil
	}
	return nil, fmt.Errorf("unsupported integer type: %T", value)
}

// parseBigInt reads decimal strings, or hex when prefixed with 0x. Leading
// zeros stay decimal.
func parseBigInt(s string) (*big.Int, error) {
	digits, base := strings.TrimSpace(s), 10
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits, base = digits[2:], 16
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("invalid integer: %s", s)
	}
	return n, nil
}

// intRange returns the inclusive bounds of an ABI int or uint type
func intRange(argType abi.Type) (lo, hi *big.Int) {
	one := big.NewInt(1)
	if argType.T == abi.UintTy {
		hi = new(big.Int).Lsh(one, uint(argType.Size))
		return big.NewInt(0), hi.Sub(hi, one)
	}
	half := new(big.Int).Lsh(one, uint(argType.Size-1))
	return new(big.Int).Neg(half), new(big.Int).Sub(half, one)
}

func narrowInt(argType abi.Type, n *big.Int) (any, error) {
	lo, hi := intRange(argType)
	if n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
		prefix := "int"
		if argType.T == abi.UintTy {
			prefix = "uint"
		}
		return nil, fmt.Errorf("value %s overflows %s%d", n, prefix, argType.Size)
	}

	// the packer wants native widths for small integer types
	target := argType.GetType()
	out := reflect.New(target).Elem()
	switch target.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		out.SetUint(n.Uint64())
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out.SetInt(n.Int64())
	default:
		// sizes that are not a native width are packed as *big.Int
		return n, nil
	}
	return out.Interface(), nil
}

func toBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		raw, err := hex.DecodeString(strings.TrimPrefix(v, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid hex string: %w", err)
		}
		return raw, nil
	}
	return nil, fmt.Errorf("unsupported bytes type: %T", value)
}

// BuildDeploymentTransactionData appends the encoded constructor arguments to the creation bytecode
func BuildDeploymentTransactionData(bytecode string, encodedConstructorArgs []byte) string {
	return "0x" + strings.TrimPrefix(bytecode, "0x") + hex.EncodeToString(encodedConstructorArgs)
}
