package core

import "fmt"

// Network selects the production or test deployment of the venue. It is fixed
// at construction; clients never switch networks at runtime.
type Network int

// Network constants.
const (
	// Mainnet is the production deployment.
	Mainnet Network = iota
	// Testnet is the test deployment.
	Testnet
)

// String returns "mainnet" or "testnet".
func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	default:
		return "unknown"
	}
}

// Pick returns mainnet or testnet depending on n.
func (n Network) Pick(mainnet, testnet string) string {
	if n == Testnet {
		return testnet
	}
	return mainnet
}

// MarshalText implements encoding.TextMarshaler.
func (n Network) MarshalText() ([]byte, error) {
	if n != Mainnet && n != Testnet {
		return nil, fmt.Errorf("unknown network %d", int(n))
	}
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It is used by both the
// JSON and YAML decoders.
func (n *Network) UnmarshalText(text []byte) error {
	switch string(text) {
	case "mainnet", "":
		*n = Mainnet
	case "testnet":
		*n = Testnet
	default:
		return fmt.Errorf("unknown network %q", text)
	}
	return nil
}

// Category is a Bybit v5 product line.
type Category int

// Category constants.
const (
	// CategorySpot is spot trading.
	CategorySpot Category = iota
	// CategoryLinear is USDT and USDC settled perpetuals and futures.
	CategoryLinear
	// CategoryInverse is coin settled contracts.
	CategoryInverse
	// CategoryOption is USDC options.
	CategoryOption
)

// String returns the wire name of the category.
func (c Category) String() string {
	switch c {
	case CategorySpot:
		return "spot"
	case CategoryLinear:
		return "linear"
	case CategoryInverse:
		return "inverse"
	case CategoryOption:
		return "option"
	default:
		return "unknown"
	}
}

// ParseCategory parses a wire category name.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "spot":
		return CategorySpot, nil
	case "linear":
		return CategoryLinear, nil
	case "inverse":
		return CategoryInverse, nil
	case "option":
		return CategoryOption, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}
