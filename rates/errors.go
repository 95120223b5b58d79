package rates

import "errors"

var ErrInvalidRate = errors.New("invalid exchange rate")
