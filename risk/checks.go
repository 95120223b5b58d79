package risk

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/roboquant/money"
)

type Violation struct {
	Code string
	Msg  string
}

type Decision struct {
	Allowed    bool
	Violations []Violation

	PlannedRisk    money.Amount
	PlannedRiskPct float64
	PlannedRR      float64
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Has reports whether the decision contains a violation with code.
func (d Decision) Has(code string) bool {
	for _, v := range d.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Evaluate checks a planned trade against the policy. Amounts are compared
// in the currency of the exposure's equity, converted with conv at the
// intent's time.
func Evaluate(p Policy, in Intent, ex Exposure, conv money.Converter) Decision {
	d := Decision{Allowed: true}

	if in.Asset == nil {
		d.add("NO_ASSET", "asset must be set")
		return d
	}
	if in.Stop == 0 || in.Entry == 0 {
		d.add("NO_STOP_OR_ENTRY", "entry/stop must be set")
		return d
	}
	if in.Size.IsZero() {
		d.add("NO_SIZE", "size must be non-zero")
		return d
	}
	if in.Size.IsPositive() != (in.Stop < in.Entry) {
		d.add("STOP_WRONG_SIDE", fmt.Sprintf("stop %g on the wrong side of entry %g", in.Stop, in.Entry))
	}

	at := in.Time
	if at.IsZero() {
		at = time.Now()
	}
	planned, err := PlannedRisk(in.Asset, in.Size, in.Entry, in.Stop, conv, ex.Equity.Currency, at)
	if err != nil {
		log.Debug().Err(err).Str("asset", in.Asset.Symbol()).Msg("planned risk not convertible")
		d.add("NO_RATE", err.Error())
		return d
	}
	d.PlannedRisk = planned
	d.PlannedRiskPct = RiskPct(planned, ex.Equity)

	if in.TakeProfit != 0 {
		d.PlannedRR = RR(in.Entry, in.Stop, in.TakeProfit)
		if d.PlannedRR < p.MinRR {
			d.add("RR_TOO_LOW", fmt.Sprintf("RR %.2f below minimum %.2f", d.PlannedRR, p.MinRR))
		}
	}

	if d.PlannedRiskPct > p.MaxRiskPct {
		d.add("RISK_TOO_HIGH",
			fmt.Sprintf("planned risk %.2f%% exceeds max %.2f%%", 100*d.PlannedRiskPct, 100*p.MaxRiskPct))
	} else if d.PlannedRiskPct > p.DefaultRiskPct {
		d.add("RISK_OVER_DEFAULT",
			fmt.Sprintf("planned risk %.2f%% exceeds default %.2f%% (requires override)",
				100*d.PlannedRiskPct, 100*p.DefaultRiskPct))
	}

	if p.MaxOpenPositions > 0 && ex.OpenPositions >= p.MaxOpenPositions {
		d.add("TOO_MANY_POSITIONS",
			fmt.Sprintf("open positions %d >= max %d", ex.OpenPositions, p.MaxOpenPositions))
	}

	dayLimit := -p.MaxDailyLossPct * ex.Equity.Value
	if p.MaxDailyLossPct > 0 && ex.DayRealized.Value <= dayLimit {
		d.add("DAILY_LOSS_LIMIT",
			fmt.Sprintf("day realized %.2f <= limit %.2f", ex.DayRealized.Value, dayLimit))
	}

	return d
}
