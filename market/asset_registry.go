package market

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rustyeddy/roboquant/money"
)

// SEP separates the fields of a serialized asset.
const SEP = "\x1f"

// Deserializer rebuilds an asset from the fields that follow its type tag.
type Deserializer func(fields []string) (Asset, error)

var (
	deserializersMu sync.RWMutex
	deserializers   = map[string]Deserializer{
		"Stock":  deserializeStock,
		"Option": deserializeOption,
		"Future": deserializeFuture,
		"Forex":  deserializeForex,
		"Crypto": deserializeCrypto,
	}

	// serialized string -> Asset
	assetCache sync.Map
)

// RegisterAssetType adds or replaces the deserializer for tag.
func RegisterAssetType(tag string, fn Deserializer) {
	deserializersMu.Lock()
	deserializers[tag] = fn
	deserializersMu.Unlock()
}

// DeserializeAsset is the inverse of Asset.Serialize. Results are cached, so
// repeated calls with the same string are cheap.
func DeserializeAsset(s string) (Asset, error) {
	if a, ok := assetCache.Load(s); ok {
		return a.(Asset), nil
	}

	tag, rest, _ := strings.Cut(s, SEP)
	deserializersMu.RLock()
	fn, ok := deserializers[tag]
	deserializersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("deserialize %q: %w", tag, ErrUnknownAssetType)
	}

	var fields []string
	if rest != "" {
		fields = strings.Split(rest, SEP)
	}
	a, err := fn(fields)
	if err != nil {
		return nil, fmt.Errorf("deserialize %s: %w", tag, err)
	}
	actual, _ := assetCache.LoadOrStore(s, a)
	return actual.(Asset), nil
}

// MustDeserializeAsset is like DeserializeAsset but panics on error.
func MustDeserializeAsset(s string) Asset {
	a, err := DeserializeAsset(s)
	if err != nil {
		panic(err)
	}
	return a
}

func join(fields ...string) string {
	return strings.Join(fields, SEP)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func wantFields(fields []string, n int) error {
	if len(fields) != n {
		return fmt.Errorf("want %d fields, got %d: %w", n, len(fields), ErrInvalidArgument)
	}
	return nil
}

func deserializeStock(fields []string) (Asset, error) {
	if err := wantFields(fields, 3); err != nil {
		return nil, err
	}
	return NewStock(fields[0], money.GetCurrency(fields[1]), GetExchange(fields[2]))
}

func deserializeOption(fields []string) (Asset, error) {
	if err := wantFields(fields, 3); err != nil {
		return nil, err
	}
	m, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return nil, fmt.Errorf("multiplier %q: %w", fields[2], ErrInvalidArgument)
	}
	return NewOption(fields[0], money.GetCurrency(fields[1]), m)
}

func deserializeFuture(fields []string) (Asset, error) {
	if err := wantFields(fields, 3); err != nil {
		return nil, err
	}
	m, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return nil, fmt.Errorf("multiplier %q: %w", fields[2], ErrInvalidArgument)
	}
	return NewFuture(fields[0], money.GetCurrency(fields[1]), m)
}

func deserializeForex(fields []string) (Asset, error) {
	if err := wantFields(fields, 1); err != nil {
		return nil, err
	}
	return NewForex(fields[0])
}

func deserializeCrypto(fields []string) (Asset, error) {
	if err := wantFields(fields, 2); err != nil {
		return nil, err
	}
	return NewCrypto(fields[0], money.GetCurrency(fields[1]))
}
