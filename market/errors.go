package market

import "errors"

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrPrecisionLoss    = errors.New("value not representable without precision loss")
	ErrSizeOverflow     = errors.New("size out of range")
	ErrNoTrading        = errors.New("not a trading day")
	ErrUnknownAssetType = errors.New("unknown asset type")
	ErrInvalidInterval  = errors.New("invalid interval")
)
